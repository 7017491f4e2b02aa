//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/darkroom/render"
)

func TestFactoryRegistered(t *testing.T) {
	if render.RegisteredDeviceFactory() == nil {
		t.Fatal("importing gpu should register a device factory")
	}
}

func TestProviderFactoryWithoutHal(t *testing.T) {
	f := ProviderFactory(nil)
	d, err := f()
	if !errors.Is(err, ErrNoHal) {
		t.Errorf("factory error = %v, want ErrNoHal", err)
	}
	if d != nil {
		t.Error("factory returned a device on error")
	}

	if _, err := render.New(render.GPU, render.WithDeviceFactory(f)); err == nil {
		t.Error("render.New should fail with a provider lacking HAL access")
	}
}
