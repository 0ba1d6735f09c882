package dto

// Proof represents a Linked Data Proof attached to a JSON document.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue,omitempty"`
	Cryptosuite        string `json:"cryptosuite,omitempty"`
	Challenge          string `json:"challenge,omitempty"`
	Domain             string `json:"domain,omitempty"`

	// Signature holds the raw signature bytes of an externally produced
	// proof; it is hex-encoded into ProofValue when the proof is attached
	// without one.
	Signature []byte `json:"-"`
}
