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

import "github.com/google/uuid"

// Resource is the set of fields common to every NMOS resource type (Node,
// Device, Source, Flow, Sender, Receiver). This toolkit only models the
// Node's Self resource, but keeps the field carved out since every other
// resource shares it.
type Resource struct {
	ID          uuid.UUID           `json:"id"`
	Version     Version             `json:"version"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Tags        map[string][]string `json:"tags"`
}

// Endpoint is the host/port/protocol triple needed to reach the Node API.
type Endpoint struct {
	Host          string `json:"host"`
	Port          uint16 `json:"port"`
	Protocol      string `json:"protocol"`
	Authorization bool   `json:"authorization"`
}

// API carries the Node API's supported versions and the endpoints serving
// them.
type API struct {
	Versions  []string   `json:"versions"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Interface describes one network interface made available to Devices
// owned by this Node, for IS-06 topology discovery.
type Interface struct {
	ChassisID *string `json:"chassis_id"`
	PortID    string  `json:"port_id"`
	Name      string  `json:"name"`
}

// Clock is implemented by ClockInternal and ClockPtp, the two reference
// clock variants a Node can advertise.
type Clock interface {
	isClock()
}

// ClockInternal describes a clock with no external reference.
type ClockInternal struct {
	Name    string `json:"name"`
	RefType string `json:"ref_type"`
}

func (ClockInternal) isClock() {}

// NewClockInternal builds a ClockInternal with ref_type fixed to
// "internal".
func NewClockInternal(name string) ClockInternal {
	return ClockInternal{Name: name, RefType: "internal"}
}

// ClockPtp describes a clock referenced to PTP.
type ClockPtp struct {
	Name      string `json:"name"`
	RefType   string `json:"ref_type"`
	Traceable bool   `json:"traceable"`
	Version   string `json:"version"`
	GMID      string `json:"gmid"`
	Locked    bool   `json:"locked"`
}

func (ClockPtp) isClock() {}

// NewClockPtp builds a ClockPtp with ref_type fixed to "ptp".
func NewClockPtp(name, version, gmid string, traceable, locked bool) ClockPtp {
	return ClockPtp{Name: name, RefType: "ptp", Traceable: traceable, Version: version, GMID: gmid, Locked: locked}
}

// Self describes the Node and the services running on it -- the record
// served by GET /x-nmos/node/{vX.Y}/self.
type Self struct {
	Resource
	Href       string      `json:"href"`
	Caps       struct{}    `json:"caps"`
	API        API         `json:"api"`
	Services   []struct{}  `json:"services"`
	Clocks     []Clock     `json:"clocks"`
	Interfaces []Interface `json:"interfaces"`
}

// NewSelf builds a Self record with every slice field initialized empty
// rather than nil, so JSON serialization produces "[]" instead of "null"
// for a Node with no services, clocks or interfaces configured yet.
func NewSelf(id uuid.UUID, label, description string) Self {
	return Self{
		Resource: Resource{
			ID:          id,
			Label:       label,
			Description: description,
			Tags:        map[string][]string{},
		},
		API:        API{Versions: []string{}, Endpoints: []Endpoint{}},
		Services:   []struct{}{},
		Clocks:     []Clock{},
		Interfaces: []Interface{},
	}
}
