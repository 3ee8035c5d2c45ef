// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

package api

import (
	"net/http"

	"github.com/karmarun/formula/definitions"
	"github.com/karmarun/formula/fvm/err"
	"golang.org/x/crypto/bcrypt"
)

// HashSecret returns the bcrypt hash to configure as --api-secret-hash.
func HashSecret(secret string) (string, error) {
	bs, e := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bs), e
}

func (h *Handler) authorize(rq *http.Request) err.Error {
	if len(h.SecretHash) == 0 {
		return nil
	}
	secret := rq.Header.Get(definitions.SecretHeader)
	if secret == "" {
		return err.PermissionDeniedError{Problem: definitions.SecretHeader + " header missing"}
	}
	if bcrypt.CompareHashAndPassword(h.SecretHash, []byte(secret)) != nil {
		return err.PermissionDeniedError{Problem: "wrong secret"}
	}
	return nil
}
