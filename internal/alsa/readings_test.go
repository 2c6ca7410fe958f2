package alsa

import (
	"context"
	"errors"
	"testing"
)

func TestReadingKey(t *testing.T) {
	if got := ReadingKey(0, 0); got != "card_0_device_0" {
		t.Errorf("got %q, want card_0_device_0", got)
	}
	if got := ReadingKey(12, 3); got != "card_12_device_3" {
		t.Errorf("got %q, want card_12_device_3", got)
	}
}

func TestAllReadings(t *testing.T) {
	mixer, _ := newScriptedMixer()

	readings, err := mixer.AllReadings(context.Background())
	if err != nil {
		t.Fatalf("AllReadings failed: %v", err)
	}

	wantKeys := []string{"card_0_device_0", "card_0_device_1", "card_1_device_0"}
	if len(readings) != len(wantKeys) {
		t.Fatalf("got %d readings, want %d: %v", len(readings), len(wantKeys), readings)
	}
	for _, key := range wantKeys {
		if _, ok := readings[key]; !ok {
			t.Errorf("missing reading %q", key)
		}
	}

	// Devices on the same card share the card's control state.
	analog := readings["card_0_device_0"]
	digital := readings["card_0_device_1"]
	if analog.Control != "Master" || digital.Control != "Master" {
		t.Errorf("card 0 devices resolved different controls: %q, %q", analog.Control, digital.Control)
	}
	if analog.VolumePercent != digital.VolumePercent {
		t.Errorf("card 0 devices disagree on volume: %d vs %d", analog.VolumePercent, digital.VolumePercent)
	}
	if analog.DeviceName != "ALC892 Analog" {
		t.Errorf("got device name %q, want ALC892 Analog", analog.DeviceName)
	}

	usb := readings["card_1_device_0"]
	if usb.Control != "Headset" {
		t.Errorf("USB card resolved %q, want Headset", usb.Control)
	}
}

func TestAllReadingsOmitsBrokenCard(t *testing.T) {
	runner := newFakeRunner()
	runner.script("aplay -l", aplayTwoCards)
	runner.script("amixer -c 0 scontents", scontentsMasterPCM)
	runner.scriptError("amixer -c 1 scontents", &ExecError{
		Command: "amixer", ExitCode: 1, Stderr: "Mixer attach hw:1 error",
	})

	readings, err := NewMixer(runner).AllReadings(context.Background())
	if err != nil {
		t.Fatalf("AllReadings failed: %v", err)
	}

	if _, ok := readings["card_1_device_0"]; ok {
		t.Error("card without working control must be omitted")
	}
	if _, ok := readings["card_0_device_0"]; !ok {
		t.Error("healthy card missing from readings")
	}
}

func TestAllReadingsEnumerationFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.scriptError("aplay -l", errors.New("aplay exploded"))

	_, err := NewMixer(runner).AllReadings(context.Background())
	if err == nil {
		t.Fatal("expected error when enumeration fails")
	}
}

func TestAllReadingsEmptySystem(t *testing.T) {
	runner := newFakeRunner()
	runner.script("aplay -l", "**** List of PLAYBACK Hardware Devices ****\n")

	readings, err := NewMixer(runner).AllReadings(context.Background())
	if err != nil {
		t.Fatalf("AllReadings failed: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("got %d readings from empty system, want 0", len(readings))
	}
}
