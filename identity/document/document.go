// Package document holds the in-memory DID document model: identifier,
// verification methods grouped by purpose, and services.
package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
)

// Document is a DID document. Verification methods are stored once in an
// id-keyed map together with their owning purpose; the six relationship
// arrays are rebuilt from the map on marshal. This keeps "which array holds
// this method" a lookup instead of a six-array scan.
type Document struct {
	Context  []string
	ID       string
	Services []Service

	methods     map[string]methodEntry
	methodOrder []string
}

type methodEntry struct {
	purpose Purpose
	method  VerificationMethod
}

// MethodRef pairs a verification method with the purpose array it lives in.
type MethodRef struct {
	Purpose Purpose
	Method  VerificationMethod
}

// New creates an empty document for the given DID.
func New(id string) *Document {
	return &Document{
		Context: []string{Context},
		ID:      id,
		methods: make(map[string]methodEntry),
	}
}

// QualifyFragment turns "#fragment" or "fragment" into a full id scoped to
// this document; already-qualified ids pass through.
func (d *Document) QualifyFragment(id string) string {
	if strings.Contains(id, "#") && !strings.HasPrefix(id, "#") {
		return id
	}
	fragment := strings.TrimPrefix(id, "#")
	return d.ID + "#" + fragment
}

// AddVerificationMethod inserts a method under the given purpose. A method
// with the same id already present anywhere in the document is replaced, so
// re-adding an id under a different purpose moves it.
func (d *Document) AddVerificationMethod(purpose Purpose, method VerificationMethod) error {
	if _, err := ParsePurpose(string(purpose)); err != nil {
		return err
	}
	if method.ID == "" {
		return fmt.Errorf("verification method id is empty")
	}
	if !strings.HasPrefix(method.ID, d.ID+"#") {
		return fmt.Errorf("verification method id %q must be scoped to document %q", method.ID, d.ID)
	}

	if _, exists := d.methods[method.ID]; !exists {
		d.methodOrder = append(d.methodOrder, method.ID)
	}
	d.methods[method.ID] = methodEntry{purpose: purpose, method: method}
	return nil
}

// RemoveVerificationMethod removes the method with the given id from
// whichever purpose array holds it.
func (d *Document) RemoveVerificationMethod(id string) error {
	id = d.QualifyFragment(id)
	if _, exists := d.methods[id]; !exists {
		return errs.NewNotFound("removeVerificationMethod", id)
	}
	delete(d.methods, id)
	for i, mid := range d.methodOrder {
		if mid == id {
			d.methodOrder = append(d.methodOrder[:i], d.methodOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Method returns the verification method with the given id and the purpose
// array it belongs to.
func (d *Document) Method(id string) (VerificationMethod, Purpose, error) {
	id = d.QualifyFragment(id)
	entry, exists := d.methods[id]
	if !exists {
		return VerificationMethod{}, "", errs.NewNotFound("findMethod", id)
	}
	return entry.method, entry.purpose, nil
}

// Methods returns every verification method with its owning purpose, in
// insertion order.
func (d *Document) Methods() []MethodRef {
	refs := make([]MethodRef, 0, len(d.methodOrder))
	for _, id := range d.methodOrder {
		entry := d.methods[id]
		refs = append(refs, MethodRef{Purpose: entry.purpose, Method: entry.method})
	}
	return refs
}

// AddService inserts a service; a service with the same id is replaced.
func (d *Document) AddService(service Service) error {
	if service.ID == "" {
		return fmt.Errorf("service id is empty")
	}
	if !strings.HasPrefix(service.ID, d.ID+"#") {
		return fmt.Errorf("service id %q must be scoped to document %q", service.ID, d.ID)
	}

	for i, existing := range d.Services {
		if existing.ID == service.ID {
			d.Services[i] = service
			return nil
		}
	}
	d.Services = append(d.Services, service)
	return nil
}

// RemoveService removes the service with the given id.
func (d *Document) RemoveService(id string) error {
	id = d.QualifyFragment(id)
	for i, service := range d.Services {
		if service.ID == id {
			d.Services = append(d.Services[:i], d.Services[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("removeService", id)
}

// FindService returns the service with the given id.
func (d *Document) FindService(id string) (Service, error) {
	id = d.QualifyFragment(id)
	for _, service := range d.Services {
		if service.ID == id {
			return service, nil
		}
	}
	return Service{}, errs.NewNotFound("findService", id)
}

// documentJSON is the wire form of a Document.
type documentJSON struct {
	Context              []string             `json:"@context"`
	ID                   string               `json:"id"`
	VerificationMethod   []VerificationMethod `json:"verificationMethod,omitempty"`
	Authentication       []VerificationMethod `json:"authentication,omitempty"`
	AssertionMethod      []VerificationMethod `json:"assertionMethod,omitempty"`
	KeyAgreement         []VerificationMethod `json:"keyAgreement,omitempty"`
	CapabilityInvocation []VerificationMethod `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []VerificationMethod `json:"capabilityDelegation,omitempty"`
	Service              []Service            `json:"service,omitempty"`
}

// MarshalJSON rebuilds the six purpose arrays from the method map, keeping
// insertion order within each array.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Context: d.Context,
		ID:      d.ID,
		Service: d.Services,
	}

	byPurpose := make(map[Purpose][]VerificationMethod)
	for _, id := range d.methodOrder {
		entry := d.methods[id]
		byPurpose[entry.purpose] = append(byPurpose[entry.purpose], entry.method)
	}

	out.VerificationMethod = byPurpose[PurposeVerificationMethod]
	out.Authentication = byPurpose[PurposeAuthentication]
	out.AssertionMethod = byPurpose[PurposeAssertionMethod]
	out.KeyAgreement = byPurpose[PurposeKeyAgreement]
	out.CapabilityInvocation = byPurpose[PurposeCapabilityInvocation]
	out.CapabilityDelegation = byPurpose[PurposeCapabilityDelegation]

	return json.Marshal(out)
}

// UnmarshalJSON loads the six purpose arrays back into the method map.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to unmarshal DID document: %w", err)
	}

	d.Context = in.Context
	d.ID = in.ID
	d.Services = in.Service
	d.methods = make(map[string]methodEntry)
	d.methodOrder = nil

	load := func(purpose Purpose, methods []VerificationMethod) {
		for _, m := range methods {
			if _, exists := d.methods[m.ID]; !exists {
				d.methodOrder = append(d.methodOrder, m.ID)
			}
			d.methods[m.ID] = methodEntry{purpose: purpose, method: m}
		}
	}
	load(PurposeVerificationMethod, in.VerificationMethod)
	load(PurposeAuthentication, in.Authentication)
	load(PurposeAssertionMethod, in.AssertionMethod)
	load(PurposeKeyAgreement, in.KeyAgreement)
	load(PurposeCapabilityInvocation, in.CapabilityInvocation)
	load(PurposeCapabilityDelegation, in.CapabilityDelegation)

	return nil
}
