/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nmos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegisterNodeAPIServesSelfPerVersion(t *testing.T) {
	id := uuid.New()
	self := NewSelf(id, "node1", "test node")

	router := chi.NewRouter()
	RegisterNodeAPI(router, []APIVersion{V1_2, V1_3}, func() Self { return self })

	for _, v := range []APIVersion{V1_2, V1_3} {
		req := httptest.NewRequest(http.MethodGet, "/x-nmos/node/"+v.String()+"/self", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var decoded Self
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		require.Equal(t, id, decoded.ID)
	}
}

func TestRegisterNodeAPIUnregisteredVersionNotFound(t *testing.T) {
	router := chi.NewRouter()
	RegisterNodeAPI(router, []APIVersion{V1_2}, func() Self { return Self{} })

	req := httptest.NewRequest(http.MethodGet, "/x-nmos/node/v1.3/self", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
