// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import "crypto/sha256"

const HashLen = sha256.Size

// ComputeHash256Array computes a cryptographic hash of the given bytes
func ComputeHash256Array(buf []byte) [HashLen]byte {
	return sha256.Sum256(buf)
}

// ComputeHash256 computes a cryptographic hash of the given bytes
func ComputeHash256(buf []byte) []byte {
	arr := ComputeHash256Array(buf)
	return arr[:]
}
