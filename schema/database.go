package schema

// DefaultIDColumn is the identifier column Roble assigns to every record.
const DefaultIDColumn = "_id"

// Record is a single row of a Roble table. The remote service owns the
// schema; the client treats it as opaque except for the identifier column.
type Record map[string]interface{}

// ID returns the record identifier, empty when absent.
func (r Record) ID() string {
	id, _ := r[DefaultIDColumn].(string)
	return id
}

// InsertRequest represents the /insert body. Records is a batch even when a
// single record is inserted.
type InsertRequest struct {
	TableName string   `json:"tableName"`
	Records   []Record `json:"records"`
}

// UpdateRequest represents the /update body; only the fields listed in
// Updates are merged into the addressed record.
type UpdateRequest struct {
	TableName string                 `json:"tableName"`
	IDColumn  string                 `json:"idColumn"`
	IDValue   string                 `json:"idValue"`
	Updates   map[string]interface{} `json:"updates"`
}

// DeleteRequest represents the /delete body.
type DeleteRequest struct {
	TableName string `json:"tableName"`
	IDColumn  string `json:"idColumn"`
	IDValue   string `json:"idValue"`
}
