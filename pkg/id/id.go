package id

import (
	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return GenUUIDString()
}

// GenUUIDString new uuid
func GenUUIDString() string {
	return uuid.Must(uuid.NewV4()).String()
}

// UUIDByName deterministic uuid derived from a namespace uuid and a
// name; the same pair always yields the same id
func UUIDByName(uuidStr, name string) string {
	ns, err := uuid.FromString(uuidStr)
	if err != nil {
		panic(err)
	}

	return uuid.NewV5(ns, name).String()
}
