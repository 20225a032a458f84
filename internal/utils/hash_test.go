// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"testing"

	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "test-secret-key"

func referenceHMAC(data []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHasher_MatchesHMAC(t *testing.T) {
	body, err := json.Marshal(models.Command{Cmd: models.CmdUsers, Method: models.MethodGetByEmail, Data: json.RawMessage(`"a@x.com"`)})
	require.NoError(t, err)

	h := NewHasher(testHashKey)

	assert.Equal(t, referenceHMAC(body, testHashKey), h.SumHex(body))
	assert.Equal(t, h.SumHex(body), h.SumHex(body), "hash must be deterministic")
}

func TestHasher_DifferentKeys(t *testing.T) {
	data := []byte(`{"amountLogin":3}`)

	assert.NotEqual(t, NewHasher("key-one").SumHex(data), NewHasher("key-two").SumHex(data))
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher(testHashKey)
	data := []byte(`"u1"`)

	assert.True(t, h.Verify(data, h.SumHex(data)))
	assert.False(t, h.Verify(data, h.SumHex([]byte(`"u2"`))))
	assert.False(t, h.Verify(data, "not-hex"))
	assert.False(t, h.Verify(data, ""))
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher(testHashKey)
	data := []byte("payload")
	want := referenceHMAC(data, testHashKey)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, h.SumHex(data))
		}()
	}
	wg.Wait()
}

func TestHashString(t *testing.T) {
	assert.Equal(t, referenceHMAC([]byte("some data"), testHashKey), HashString("some data", testHashKey))
}
