package inject

import (
	"errors"
	"reflect"
	"testing"
)

func stubTools(t *testing.T, available ...string) {
	t.Helper()
	prevLook, prevDaemon := lookPath, ydotooldRunning
	t.Cleanup(func() { lookPath, ydotooldRunning = prevLook, prevDaemon })

	lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	ydotooldRunning = func() bool { return true }
}

func TestDetectX11PrefersXdotool(t *testing.T) {
	stubTools(t, "xdotool", "ydotool", "wtype")
	inj, err := Detect("x11")
	if err != nil {
		t.Fatal(err)
	}
	if inj.Name() != "xdotool" {
		t.Fatalf("backend = %s", inj.Name())
	}
}

func TestDetectWaylandPrefersYdotool(t *testing.T) {
	stubTools(t, "ydotool", "wtype")
	inj, err := Detect("wayland")
	if err != nil {
		t.Fatal(err)
	}
	if inj.Name() != "ydotool" {
		t.Fatalf("backend = %s", inj.Name())
	}
}

func TestDetectWaylandFallsBackToWtype(t *testing.T) {
	stubTools(t, "ydotool", "wtype")
	ydotooldRunning = func() bool { return false }
	inj, err := Detect("wayland")
	if err != nil {
		t.Fatal(err)
	}
	if inj.Name() != "wtype" {
		t.Fatalf("backend = %s", inj.Name())
	}
}

func TestDetectUnknownSessionTriesAnyTool(t *testing.T) {
	stubTools(t, "xdotool")
	inj, err := Detect("")
	if err != nil {
		t.Fatal(err)
	}
	if inj.Name() != "xdotool" {
		t.Fatalf("backend = %s", inj.Name())
	}
}

func TestCommandArgvIsLiteral(t *testing.T) {
	// The transcribed string must pass through untouched, dashes and all.
	text := "--hello; $(world)"
	cases := map[string][]string{
		"xdotool": {"xdotool", "type", "--", text},
		"ydotool": {"ydotool", "type", "--", text},
		"wtype":   {"wtype", text},
	}
	for _, inj := range []Injector{xdotoolInjector(), ydotoolInjector(), wtypeInjector()} {
		got := inj.(*cmdInjector).argv(text)
		if !reflect.DeepEqual(got, cases[inj.Name()]) {
			t.Fatalf("%s argv = %v", inj.Name(), got)
		}
	}
}
