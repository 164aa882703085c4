package field

// Type is the indexing type of a field.
type Type string

// Field type constants.
const (
	// Tag is a tag (exact match) field.
	Tag     Type = "tag"
	Numeric Type = "numeric"
)

// Filterable product attributes.
const (
	Color = "color"
	Size  = "size"
	Price = "price"
)

// Metadata-only attributes.
const (
	ID      = "id"
	Name    = "name"
	ImageID = "imageId"
)

// Field is an immutable value object describing an indexed product attribute.
type Field struct {
	name      string
	fieldType Type
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's indexing type.
func (f Field) FieldType() Type { return f.fieldType }

// Schema returns the filterable product fields in filter clause order.
func Schema() []Field {
	return []Field{
		{name: Color, fieldType: Tag},
		{name: Size, fieldType: Tag},
		{name: Price, fieldType: Numeric},
	}
}

// ByName looks up a schema field.
func ByName(name string) (Field, bool) {
	for _, f := range Schema() {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}
