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

	"github.com/go-chi/chi/v5"
)

// SelfProvider supplies the current Self record, refreshed by whatever owns
// the Node's identity and interface list.
type SelfProvider func() Self

// RegisterNodeAPI mounts the /x-nmos/node/{version}/self contract onto
// router for every version in supported. This package implements only the
// wire contract (JSON shape and error payloads); the registration,
// heartbeat and IS-04 discovery behavior of a full Node API are out of
// scope.
func RegisterNodeAPI(router chi.Router, supported []APIVersion, self SelfProvider) {
	for _, v := range supported {
		version := v
		router.Get("/x-nmos/node/"+version.String()+"/self", selfHandler(self))
	}
}

func selfHandler(self SelfProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(self()); err != nil {
			writeAPIError(w, http.StatusInternalServerError, NewAPIError(http.StatusInternalServerError, err.Error()))
		}
	}
}

func writeAPIError(w http.ResponseWriter, status int, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
