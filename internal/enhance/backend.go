package enhance

import "fmt"

// Backend names accepted by NewBackend.
const (
	BackendSDK  = "sdk"
	BackendREST = "rest"
)

// NewBackend builds the named backend for model. An empty name selects the SDK.
func NewBackend(name, model string) (Backend, error) {
	switch name {
	case "", BackendSDK:
		return NewSDKBackend(model, nil), nil
	case BackendREST:
		return NewRESTBackend("", model), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", name, BackendSDK, BackendREST)
	}
}
