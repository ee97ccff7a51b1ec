package models

// IDSequence backs the monotonic public identifier counters. One row per
// sequence name, incremented under the enclosing transaction.
type IDSequence struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

func (IDSequence) TableName() string {
	return "id_sequences"
}
