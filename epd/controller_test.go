// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  byte
	data []byte
}

type fakeController []record

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (*fakeController) readBusy() {
}

// fullMemoryArea is the setMemoryArea sequence for the whole 2.13" panel.
var fullMemoryArea = []record{
	{cmd: dataEntryModeSetting, data: []byte{0x03}},
	{cmd: setRAMXAddressStartEndPosition, data: []byte{0, 16 - 1}},
	{cmd: setRAMYAddressStartEndPosition, data: []byte{0, 0, 250 - 1, 0}},
	{cmd: setRAMXAddressCounter, data: []byte{0}},
	{cmd: setRAMYAddressCounter, data: []byte{0, 0}},
}

func concat(parts ...[]record) []record {
	var out []record
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestInitDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
		want []record
	}{
		{
			name: "epd2in13",
			opts: EPD2in13,
			want: concat(
				[]record{
					{cmd: swReset},
					{cmd: driverOutputControl, data: []byte{250 - 1, 0, 0}},
				},
				fullMemoryArea,
				[]record{
					{cmd: borderWaveformControl, data: []byte{0x05}},
					{cmd: displayUpdateControl1, data: []byte{0x00, 0x80}},
					{cmd: tempSensorSelect, data: []byte{0x80}},
				},
			),
		},
		{
			name: "tall",
			opts: Opts{Width: 128, Height: 296},
			want: []record{
				{cmd: swReset},
				{cmd: driverOutputControl, data: []byte{0x27, 0x01, 0}},
				{cmd: dataEntryModeSetting, data: []byte{0x03}},
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0, 16 - 1}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0, 0, 0x27, 0x01}},
				{cmd: setRAMXAddressCounter, data: []byte{0}},
				{cmd: setRAMYAddressCounter, data: []byte{0, 0}},
				{cmd: borderWaveformControl, data: []byte{0x05}},
				{cmd: displayUpdateControl1, data: []byte{0x00, 0x80}},
				{cmd: tempSensorSelect, data: []byte{0x80}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			initDisplay(&got, &tc.opts)

			if diff := cmp.Diff([]record(got), tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInitDisplayFast(t *testing.T) {
	var got fakeController

	initDisplayFast(&got, &EPD2in13)

	want := concat(
		[]record{
			{cmd: swReset},
			{cmd: tempSensorSelect, data: []byte{0x80}},
		},
		fullMemoryArea,
		[]record{
			{cmd: displayUpdateControl2, data: []byte{0xb1}},
			{cmd: masterActivation},
			{cmd: tempSensorRegWrite, data: []byte{0x64, 0x00}},
			{cmd: displayUpdateControl2, data: []byte{0x91}},
			{cmd: masterActivation},
		},
	)

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("initDisplayFast() difference (-got +want):\n%s", diff)
	}
}

func TestConfigPartial(t *testing.T) {
	var got fakeController

	configPartial(&got, &EPD2in13)

	want := concat(
		[]record{
			{cmd: borderWaveformControl, data: []byte{0x80}},
			{cmd: driverOutputControl, data: []byte{250 - 1, 0, 0}},
		},
		fullMemoryArea,
	)

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("configPartial() difference (-got +want):\n%s", diff)
	}
}

func TestSetMemoryArea(t *testing.T) {
	var got fakeController

	setMemoryArea(&got, image.Rect(2, 260, 5, 300))

	want := []record{
		{cmd: dataEntryModeSetting, data: []byte{0x03}},
		{cmd: setRAMXAddressStartEndPosition, data: []byte{2, 4}},
		{cmd: setRAMYAddressStartEndPosition, data: []byte{0x04, 0x01, 0x2b, 0x01}},
		{cmd: setRAMXAddressCounter, data: []byte{2}},
		{cmd: setRAMYAddressCounter, data: []byte{0x04, 0x01}},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("setMemoryArea() difference (-got +want):\n%s", diff)
	}
}

func TestRefresh(t *testing.T) {
	for _, tc := range []struct {
		mode Mode
		want byte
	}{
		{mode: Full, want: 0xf7},
		{mode: Fast, want: 0xc7},
		{mode: Partial, want: 0xff},
	} {
		t.Run(tc.mode.String(), func(t *testing.T) {
			var got fakeController

			refresh(&got, tc.mode)

			want := []record{
				{cmd: displayUpdateControl2, data: []byte{tc.want}},
				{cmd: masterActivation},
			}
			if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("refresh() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDeepSleep(t *testing.T) {
	var got fakeController

	deepSleep(&got)

	want := []record{{cmd: deepSleepMode, data: []byte{0x01}}}
	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("deepSleep() difference (-got +want):\n%s", diff)
	}
}
