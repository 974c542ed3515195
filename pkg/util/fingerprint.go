// Package util has small helpers shared by the ptm tooling.
package util

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// Md5ThenHex is a quick hasher
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// BufferUUID derives a deterministic UUID from raw bytes. The ptm CLI
// prints it for decoded output buffers so two runs over the same file can
// be compared at a glance.
func BufferUUID(value []byte) string {
	hash := md5.Sum(value)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}
