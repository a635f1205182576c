package model

import "time"

// Dict is a row in the `sys_dicts` table grouping related lookup values
// (order statuses, menu types and similar) under a unique code.
type Dict struct {
	ID          uint64    // sys_dicts.id
	Name        string    // sys_dicts.name
	Code        string    // sys_dicts.code (unique)
	Description string    // sys_dicts.description
	CreatedAt   time.Time // sys_dicts.created_at
	UpdatedAt   time.Time // sys_dicts.updated_at
}

// DictData is a row in the `sys_dict_data` table: one label/value pair
// belonging to a Dict.
type DictData struct {
	ID        uint64    // sys_dict_data.id
	DictID    uint64    // sys_dict_data.dict_id
	Label     string    // sys_dict_data.label
	Value     string    // sys_dict_data.value
	Sort      int       // sys_dict_data.sort
	IsDefault bool      // sys_dict_data.is_default
	CreatedAt time.Time // sys_dict_data.created_at
	UpdatedAt time.Time // sys_dict_data.updated_at
}
