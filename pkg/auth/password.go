// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	nucleoerrors "github.com/tombee/nucleo-server/pkg/errors"
)

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nucleoerrors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash.
// The comparison runs in constant time.
func VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyCredentials checks creds against a username to bcrypt hash table.
// Unknown users are compared against a fixed hash so the timing does not
// reveal which usernames exist.
func VerifyCredentials(users map[string]string, creds Credentials) bool {
	hash, ok := users[creds.Username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(creds.Password))
		return false
	}
	return VerifyPassword(hash, creds.Password)
}

var unknownUserHash = sync.OnceValue(func() []byte {
	b, err := bcrypt.GenerateFromPassword([]byte("unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(nucleoerrors.Wrap(err, "auth: bcrypt init"))
	}
	return b
})
