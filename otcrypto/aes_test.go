// Copyright (c) 2026, The OpenThread Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package otcrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/types"
)

// FIPS-197 appendix C.1 test vector.
var (
	fipsKey = []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}
	fipsPlain = []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	fipsCipher = []byte{
		0x69, 0xc4, 0xe0, 0xd8, 0x6a, 0x7b, 0x04, 0x30,
		0xd8, 0xcd, 0xb7, 0x80, 0x70, 0xb4, 0xc5, 0x5a,
	}
)

func TestAesEncryptKnownVector(t *testing.T) {
	c := NewAes()
	assert.Equal(t, types.ErrorNone, c.SetKey(fipsKey))

	output := make([]byte, AesBlockSize)
	assert.Equal(t, types.ErrorNone, c.Encrypt(fipsPlain, output))
	assert.Equal(t, fipsCipher, output)
}

func TestAesEncryptInPlace(t *testing.T) {
	c := NewAes()
	assert.Equal(t, types.ErrorNone, c.SetKey(fipsKey))

	buf := append([]byte(nil), fipsPlain...)
	assert.Equal(t, types.ErrorNone, c.Encrypt(buf, buf))
	assert.Equal(t, fipsCipher, buf)
}

func TestAesKeyValidation(t *testing.T) {
	c := NewAes()
	assert.Equal(t, types.ErrorInvalidArgs, c.SetKey(fipsKey[:8]))
	assert.Equal(t, types.ErrorInvalidState, c.Encrypt(fipsPlain, make([]byte, AesBlockSize)))
}

func TestAesShortBuffers(t *testing.T) {
	c := NewAes()
	assert.Equal(t, types.ErrorNone, c.SetKey(fipsKey))
	assert.Equal(t, types.ErrorInvalidArgs, c.Encrypt(fipsPlain[:4], make([]byte, AesBlockSize)))
	assert.Equal(t, types.ErrorInvalidArgs, c.Encrypt(fipsPlain, make([]byte, 4)))
}

func TestAesFreeAndReuse(t *testing.T) {
	c := NewAes()
	assert.Equal(t, types.ErrorNone, c.SetKey(fipsKey))
	c.Free()
	assert.Equal(t, types.ErrorInvalidState, c.Encrypt(fipsPlain, make([]byte, AesBlockSize)))

	assert.Equal(t, types.ErrorNone, c.SetKey(fipsKey))
	output := make([]byte, AesBlockSize)
	assert.Equal(t, types.ErrorNone, c.Encrypt(fipsPlain, output))
	assert.Equal(t, fipsCipher, output)
}
