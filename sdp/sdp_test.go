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

package sdp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/audio"
)

func TestParseCRLFAndLFDelimited(t *testing.T) {
	crlf := "v=0\r\no=- 13 0 IN IP4 192.168.15.52\r\ns=Anubis_610120_13\r\nt=0 0\r\n"
	s, err := Parse(crlf)
	require.NoError(t, err)
	require.Equal(t, 0, s.Version)

	lf := "v=0\no=- 13 0 IN IP4 192.168.15.52\ns=Anubis_610120_13\nt=0 0\n"
	s2, err := Parse(lf)
	require.NoError(t, err)
	require.Equal(t, s.Origin, s2.Origin)
}

const anubisSDP = "v=0\r\n" +
	"o=- 13 0 IN IP4 192.168.15.52\r\n" +
	"s=Anubis_610120_13\r\n" +
	"c=IN IP4 239.1.15.52/15\r\n" +
	"t=0 0\r\n" +
	"a=clock-domain:PTPv2 0\r\n" +
	"a=ts-refclk:ptp=IEEE1588-2008:00-1D-C1-FF-FE-51-9E-F7:0\r\n" +
	"a=mediaclk:direct=0\r\n" +
	"a=source-filter: incl IN IP4 239.1.15.52 192.168.15.52\r\n" +
	"a=unknown-attribute-session:unknown-attribute-session-value\r\n" +
	"m=audio 5004 RTP/AVP 98\r\n" +
	"c=IN IP4 239.1.15.52/15\r\n" +
	"a=rtpmap:98 L16/48000/2\r\n" +
	"a=clock-domain:PTPv2 0\r\n" +
	"a=sync-time:0\r\n" +
	"a=framecount:48\r\n" +
	"a=source-filter: incl IN IP4 239.1.15.52 192.168.15.52\r\n" +
	"a=unknown-attribute-media:unknown-attribute-media-value\r\n" +
	"a=palign:0\r\n" +
	"a=ptime:1\r\n" +
	"a=ts-refclk:ptp=IEEE1588-2008:00-1D-C1-FF-FE-51-9E-F7:0\r\n" +
	"a=mediaclk:direct=0\r\n" +
	"a=recvonly\r\n" +
	"a=midi-pre2:50040 0,0;0,1\r\n"

func TestParseAnubisSessionAttributes(t *testing.T) {
	s, err := Parse(anubisSDP)
	require.NoError(t, err)

	require.Equal(t, 0, s.Version)
	require.Equal(t, "-", s.Origin.Username)
	require.Equal(t, "13", s.Origin.SessionID)
	require.Equal(t, "192.168.15.52", s.Origin.UnicastAddress)
	require.Equal(t, "Anubis_610120_13", s.SessionName)
	require.NotNil(t, s.ConnectionInfo)
	require.Equal(t, "239.1.15.52", s.ConnectionInfo.Address)
	require.Equal(t, int32(15), *s.ConnectionInfo.TTL)

	require.NotNil(t, s.ClockDomain)
	require.Equal(t, int32(0), s.ClockDomain.Domain)
	require.NotNil(t, s.RefClock)
	require.Equal(t, "00-1D-C1-FF-FE-51-9E-F7", s.RefClock.GMID)
	require.NotNil(t, s.MediaClock)
	require.Equal(t, int64(0), s.MediaClock.Offset)
	require.Len(t, s.SourceFilters, 1)

	require.Len(t, s.Attributes, 1)
	v, ok := s.Attributes.get("unknown-attribute-session")
	require.True(t, ok)
	require.Equal(t, "unknown-attribute-session-value", v)
}

func TestParseAnubisMediaSection(t *testing.T) {
	s, err := Parse(anubisSDP)
	require.NoError(t, err)
	require.Len(t, s.MediaDescriptions, 1)

	md := s.MediaDescriptions[0]
	require.Equal(t, "audio", md.MediaType)
	require.Equal(t, uint16(5004), md.Port)
	require.Equal(t, "RTP/AVP", md.Protocol)
	require.Len(t, md.Formats, 1)
	require.Equal(t, "L16", md.Formats[0].EncodingName)
	require.Equal(t, uint32(48000), md.Formats[0].ClockRate)

	require.NotNil(t, md.SyncTime)
	require.Equal(t, uint32(0), *md.SyncTime)
	require.NotNil(t, md.Framecount)
	require.Equal(t, int32(48), *md.Framecount)
	require.NotNil(t, md.Direction)
	require.Equal(t, DirectionRecvOnly, *md.Direction)

	require.Equal(t, AttributeList{
		{Name: "unknown-attribute-media", Value: "unknown-attribute-media-value"},
		{Name: "palign", Value: "0"},
		{Name: "midi-pre2", Value: "50040 0,0;0,1"},
	}, md.Attributes)
}

func TestSessionDescriptionStringMinimal(t *testing.T) {
	s := SessionDescription{
		Version: 0,
		Origin: OriginField{
			Username: "-", SessionID: "13", SessionVersion: 0,
			NetworkType: NetwTypeInternet, AddressType: AddrTypeIPv4, UnicastAddress: "192.168.15.52",
		},
		SessionName: "Anubis Combo LR",
		TimeActive:  TimeActiveField{StartTime: 0, StopTime: 0},
	}
	expected := "v=0\r\n" +
		"o=- 13 0 IN IP4 192.168.15.52\r\n" +
		"s=Anubis Combo LR\r\n" +
		"t=0 0"
	require.Equal(t, expected, s.String())
}

func TestMediaDescriptionStringFullAttributeOrder(t *testing.T) {
	rate := Fraction[int64]{Numerator: 48000, Denominator: 1}
	direction := DirectionRecvOnly
	domain := int32(1)
	syncTime := uint32(1234)
	deviation := Fraction[uint32]{Numerator: 1001, Denominator: 1000}
	ptime := 20.0
	maxPtime := 60.0

	md := MediaDescription{
		MediaType: "audio", Port: 5004, NumberOfPorts: 1, Protocol: "RTP/AVP",
		Formats:        []Format{{PayloadType: 98, EncodingName: "L16", ClockRate: 44100, NumChannels: 2}},
		ConnectionInfo: []ConnectionInfoField{{NetworkType: NetwTypeInternet, AddressType: AddrTypeIPv4, Address: "192.168.1.1", TTL: int32Ptr(15)}},
		Ptime:          &ptime,
		MaxPtime:       &maxPtime,
		Direction:      &direction,
		RefClock:       &ReferenceClock{Source: ClockSourcePTP, PTPVersion: PTPVersionIEEE15882008, GMID: "gmid", Domain: int32Ptr(1)},
		MediaClock:     &MediaClockSource{Offset: 5, Rate: &rate},
		ClockDomain:    &RavennaClockDomain{Source: SyncSourcePTPv2, Domain: domain},
		SyncTime:       &syncTime,
		ClockDeviation: &deviation,
	}

	expected := "m=audio 5004 RTP/AVP 98\r\n" +
		"c=IN IP4 192.168.1.1/15\r\n" +
		"a=rtpmap:98 L16/44100/2\r\n" +
		"a=ptime:20\r\n" +
		"a=maxptime:60\r\n" +
		"a=recvonly\r\n" +
		"a=ts-refclk:ptp=IEEE1588-2008:gmid:1\r\n" +
		"a=mediaclk:direct=5 rate=48000/1\r\n" +
		"a=clock-domain:PTPv2 1\r\n" +
		"a=sync-time:1234\r\n" +
		"a=clock-deviation:1001/1000"

	require.Equal(t, expected, md.String())
}

func int32Ptr(v int32) *int32 { return &v }

func TestConnectionInfoIPv6TrailingNumberIsAddressCount(t *testing.T) {
	c, err := parseConnectionInfo("c=IN IP6 ff15::101/5")
	require.NoError(t, err)
	require.Nil(t, c.TTL)
	require.Equal(t, int32(5), *c.NumberOfAddresses)
}

func TestConnectionInfoIPv4RequiresTTLWhenCountPresent(t *testing.T) {
	c, err := parseConnectionInfo("c=IN IP4 239.1.1.1/15/3")
	require.NoError(t, err)
	require.Equal(t, int32(15), *c.TTL)
	require.Equal(t, int32(3), *c.NumberOfAddresses)
}

func TestFormatToAudioFormatRoundTrip(t *testing.T) {
	f := Format{PayloadType: 98, EncodingName: "L24", ClockRate: 48000, NumChannels: 8}
	af, ok := f.ToAudioFormat()
	require.True(t, ok)
	require.Equal(t, audio.EncodingS24, af.Encoding)
	require.Equal(t, audio.BigEndian, af.ByteOrder)

	back, ok := FromAudioFormat(98, af)
	require.True(t, ok)
	require.Equal(t, f, back)
}

func TestMediaClockSourceParseRequiresDirectMode(t *testing.T) {
	_, err := parseMediaClockSource("recover=0")
	require.Error(t, err)
}

func TestSourceFilterRoundTrip(t *testing.T) {
	sf, err := parseSourceFilter(" incl IN IP4 239.1.16.51 192.168.16.51")
	require.NoError(t, err)
	require.Equal(t, FilterModeInclude, sf.Mode)
	require.Equal(t, "239.1.16.51", sf.DestAddress)
	require.Equal(t, []string{"192.168.16.51"}, sf.SourceList)
	require.Equal(t, "incl IN IP4 239.1.16.51 192.168.16.51", sf.String())
}
