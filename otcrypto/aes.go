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

// Package otcrypto implements the platform crypto primitives the 802.15.4
// MAC security layer needs: a single-block AES-ECB context.
package otcrypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/openthread/ot-radiohal/types"
)

// AesBlockSize is the AES block and key size in bytes.
const AesBlockSize = 16

// AesContext is a one-shot AES-ECB context: SetKey, any number of
// single-block Encrypt calls, then Free.
type AesContext struct {
	block cipher.Block
}

// NewAes creates an AES context without key material.
func NewAes() *AesContext {
	return &AesContext{}
}

// SetKey loads a 128-bit key into the context.
func (c *AesContext) SetKey(key []byte) types.Error {
	if len(key) != AesBlockSize {
		return types.ErrorInvalidArgs
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return types.ErrorFailed
	}
	c.block = block
	return types.ErrorNone
}

// Encrypt encrypts one 16-byte block from input into output. The two may
// alias the same buffer.
func (c *AesContext) Encrypt(input, output []byte) types.Error {
	if c.block == nil {
		return types.ErrorInvalidState
	}
	if len(input) < AesBlockSize || len(output) < AesBlockSize {
		return types.ErrorInvalidArgs
	}

	c.block.Encrypt(output[:AesBlockSize], input[:AesBlockSize])
	return types.ErrorNone
}

// Free drops the key material. The context can be reused after SetKey.
func (c *AesContext) Free() {
	c.block = nil
}
