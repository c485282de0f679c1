package domain

// Address is a person's structured street address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Person represents a phonebook entry. Name is the natural key (unique).
//
// Phone is a pointer so that "no phone on record" and "empty phone string"
// stay distinguishable: the phone presence filter is an existence test, and
// an empty string still counts as present. The tag must stay omitzero, not
// omitempty, or a present-but-empty phone would be dropped on encode and
// collapse to nil on the next read.
type Person struct {
	Record
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitzero"`
	Address Address `json:"address"`
}

// HasPhone reports whether a phone field exists on the record.
func (p *Person) HasPhone() bool {
	return p.Phone != nil
}
