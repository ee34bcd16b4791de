package models

type ProviderKind string

const (
	ProviderKindDoctor       ProviderKind = "doctor"
	ProviderKindHealthCenter ProviderKind = "health_center"
)

type Provider struct {
	ID         string       `json:"id"`
	Kind       ProviderKind `json:"kind"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Address    string       `json:"address"`
	PostalCode string       `json:"postal_code"`
	Approved   bool         `json:"approved"`
	TimeModel
}

// IsBookable reports whether patients may book this provider. Health centers
// need moderator approval first; independent doctors are bookable right away.
func (p *Provider) IsBookable() bool {
	if p == nil {
		return false
	}
	return p.Kind == ProviderKindDoctor || p.Approved
}
