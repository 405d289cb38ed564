package config

import (
	"fmt"
)

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// AuthRecord returns the storage key for a client's authorization record
func (r *StoreKeyStruct) AuthRecord(clientID string) string {
	return fmt.Sprintf("client:%s:auth", clientID)
}

// AuthRecordPattern returns the match pattern covering all authorization records
func (r *StoreKeyStruct) AuthRecordPattern() string {
	return "client:*:auth"
}

// ThemePreference returns the storage key for a client's theme preference
func (r *StoreKeyStruct) ThemePreference(clientID string) string {
	return fmt.Sprintf("client:%s:theme", clientID)
}

var StoreKey = NewStoreKeyStruct()
