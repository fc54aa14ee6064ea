// Package schema defines the declarative field registry for registration
// forms: which fields each business type carries, which contact fields every
// application shares, and the validation rules attached to each field.
// The registry is pure data, fixed at process start.
package schema

// InputKind describes how a field's value should be captured and validated.
type InputKind int

const (
	// KindText is a free-form single-line text field.
	KindText InputKind = iota
	// KindEmail is validated against a basic email shape.
	KindEmail
	// KindTel is validated against the UK phone shape.
	KindTel
	// KindGPHC is a 7-digit pharmacist registration number.
	KindGPHC
)

// FieldDescriptor declares a single form field. Descriptors are immutable;
// they carry no runtime state.
type FieldDescriptor struct {
	Key           string
	Label         string
	Kind          InputKind
	Required      bool
	Pattern       string // raw regex applied when the value is non-empty
	Placeholder   string
	ValidationMsg string // shown on pattern/kind failure instead of the generic message
}

// FieldSet is an ordered group of field descriptors.
type FieldSet []FieldDescriptor

// Get returns the descriptor with the given key.
func (fs FieldSet) Get(key string) (FieldDescriptor, bool) {
	for _, d := range fs {
		if d.Key == key {
			return d, true
		}
	}
	return FieldDescriptor{}, false
}

// Keys returns the field keys in declaration order.
func (fs FieldSet) Keys() []string {
	keys := make([]string, len(fs))
	for i, d := range fs {
		keys[i] = d.Key
	}
	return keys
}

// BusinessType describes one selectable business structure and the fields
// it requires.
type BusinessType struct {
	ID          string
	DisplayName string
	Fields      FieldSet
}

// UKPhonePattern accepts UK mobile and landline numbers with an optional
// +44 country code.
const UKPhonePattern = `^(0|\+?44)7\d{9}$|^(0|\+?44)1\d{8,9}$`

var (
	nameField    = FieldDescriptor{Key: "name", Label: "Name", Required: true}
	addressField = FieldDescriptor{Key: "address", Label: "Address", Required: true}
)

// BusinessTypes returns the fixed set of selectable business types in
// display order.
func BusinessTypes() []BusinessType {
	return []BusinessType{
		{
			ID:          "limitedCompany",
			DisplayName: "Limited Company",
			Fields: FieldSet{
				nameField,
				{Key: "number", Label: "Number", Required: true, Placeholder: "01234567"},
				addressField,
			},
		},
		{
			ID:          "soleTrader",
			DisplayName: "Sole Trader",
			Fields:      FieldSet{nameField, addressField},
		},
		{
			ID:          "partnership",
			DisplayName: "Partnership",
			Fields: FieldSet{
				nameField,
				addressField,
				{Key: "partners", Label: "Partner names", Required: true},
			},
		},
	}
}

// BusinessTypeByID looks up a business type by its identifier.
func BusinessTypeByID(id string) (BusinessType, bool) {
	for _, bt := range BusinessTypes() {
		if bt.ID == id {
			return bt, true
		}
	}
	return BusinessType{}, false
}

// ContactFields returns the contact field set shared by every application.
func ContactFields() FieldSet {
	return FieldSet{
		{Key: "name", Label: "Name", Required: true},
		{Key: "position", Label: "Position", Required: true},
		{Key: "email", Label: "Email", Kind: KindEmail, Required: true},
		{Key: "invoiceEmail", Label: "Invoice email (Optional)", Kind: KindEmail},
		{
			Key:         "telephone",
			Label:       "Telephone",
			Kind:        KindTel,
			Required:    true,
			Pattern:     UKPhonePattern,
			Placeholder: "e.g., 07123456789 or +447123456789",
			ValidationMsg: "Please enter a valid UK phone number (mobile: 07XXXXXXXXX or " +
				"+447XXXXXXXXX, landline: 01XXXXXXXXX or +441XXXXXXXXX)",
		},
	}
}
