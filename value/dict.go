package value

// Dict maps fields to byte values. A set is a Dict whose values are nil.
type Dict struct {
	m map[string][]byte
}

// NewDict returns an empty Dict.
func NewDict() *Dict { return &Dict{m: make(map[string][]byte)} }

// Len returns the number of fields.
func (d *Dict) Len() int { return len(d.m) }

// Set stores field=v and reports whether field was new.
func (d *Dict) Set(field string, v []byte) bool {
	_, exists := d.m[field]
	if v != nil {
		v = clone(v)
	}
	d.m[field] = v
	return !exists
}

// Get returns the value stored under field.
func (d *Dict) Get(field string) ([]byte, bool) {
	v, ok := d.m[field]
	return v, ok
}

// Has reports whether field is present.
func (d *Dict) Has(field string) bool {
	_, ok := d.m[field]
	return ok
}

// Delete removes field and reports whether it was present.
func (d *Dict) Delete(field string) bool {
	if _, ok := d.m[field]; !ok {
		return false
	}
	delete(d.m, field)
	return true
}

// Add inserts member with no value, set-style.
func (d *Dict) Add(member string) bool { return d.Set(member, nil) }

// Range calls fn for every field until fn returns false. Order is unspecified.
func (d *Dict) Range(fn func(field string, v []byte) bool) {
	for k, v := range d.m {
		if !fn(k, v) {
			return
		}
	}
}
