/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// PdfEncrypt is the capability a Writer needs to produce an encrypted PDF:
// transforming a String/HexString/stream payload before it is written.
// The algorithm behind it (RC4, AES-CBC, the standard security handler's
// key-derivation rules, password authentication, permission bits) is not
// this package's concern; a caller that needs actual encryption supplies
// an implementation from elsewhere and this package only calls through
// the interface.
type PdfEncrypt interface {
	// EncryptBytes transforms plaintext belonging to the indirect object
	// identified by ref. Each object gets a fresh context keyed by its
	// reference, so the same plaintext encrypts differently depending on
	// which object it is written under.
	EncryptBytes(plaintext []byte, ref Reference) ([]byte, error)

	// DecryptBytes reverses EncryptBytes.
	DecryptBytes(ciphertext []byte, ref Reference) ([]byte, error)
}

// NopEncrypt is a PdfEncrypt that passes bytes through unchanged. It is
// the Writer's default when no PdfEncrypt is supplied, and a convenient
// stand-in in tests that exercise the encryption hook without needing a
// real algorithm.
type NopEncrypt struct{}

// EncryptBytes returns plaintext unchanged.
func (NopEncrypt) EncryptBytes(plaintext []byte, ref Reference) ([]byte, error) {
	return plaintext, nil
}

// DecryptBytes returns ciphertext unchanged.
func (NopEncrypt) DecryptBytes(ciphertext []byte, ref Reference) ([]byte, error) {
	return ciphertext, nil
}
