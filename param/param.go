package param

import (
	"context"
	"sync"

	"rosnode/master"
	"rosnode/naming"
)

// Params is a node's typed view onto the coordinator's parameter
// server: every key is resolved against the node's namespace before
// the call goes out, the way topic and service names are.
type Params struct {
	client   *master.Client
	resolver *naming.Resolver

	mu   sync.Mutex
	subs map[string][]func(any)
}

// New returns a Params bound to client, resolving keys with resolver.
func New(client *master.Client, resolver *naming.Resolver) *Params {
	return &Params{client: client, resolver: resolver, subs: make(map[string][]func(any))}
}

func (p *Params) resolve(key string) (string, error) {
	return p.resolver.Resolve(key)
}

// Get fetches key's raw value.
func (p *Params) Get(ctx context.Context, key string) (any, error) {
	resolved, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	return p.client.GetParam(ctx, resolved)
}

// GetBool fetches key and asserts it holds a bool.
func (p *Params) GetBool(ctx context.Context, key string) (bool, error) {
	v, err := p.Get(ctx, key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Key: key, Expected: "bool", Value: v}
	}
	return b, nil
}

// GetInt fetches key and asserts it holds an integer.
func (p *Params) GetInt(ctx context.Context, key string) (int, error) {
	v, err := p.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	}
	return 0, &TypeError{Key: key, Expected: "int", Value: v}
}

// GetFloat64 fetches key and asserts it holds a floating-point number
// (an integer value is widened, since XML-RPC often encodes a whole
// number as <i4> even where the parameter is conceptually a float).
func (p *Params) GetFloat64(ctx context.Context, key string) (float64, error) {
	v, err := p.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	}
	return 0, &TypeError{Key: key, Expected: "float64", Value: v}
}

// GetString fetches key and asserts it holds a string.
func (p *Params) GetString(ctx context.Context, key string) (string, error) {
	v, err := p.Get(ctx, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Key: key, Expected: "string", Value: v}
	}
	return s, nil
}

// Set assigns key to value.
func (p *Params) Set(ctx context.Context, key string, value any) error {
	resolved, err := p.resolve(key)
	if err != nil {
		return err
	}
	return p.client.SetParam(ctx, resolved, value)
}

// Delete removes key.
func (p *Params) Delete(ctx context.Context, key string) error {
	resolved, err := p.resolve(key)
	if err != nil {
		return err
	}
	return p.client.DeleteParam(ctx, resolved)
}

// Has reports whether key currently has a value.
func (p *Params) Has(ctx context.Context, key string) (bool, error) {
	resolved, err := p.resolve(key)
	if err != nil {
		return false, err
	}
	return p.client.HasParam(ctx, resolved)
}

// Search resolves key against the parameter server's namespace search
// rules, returning the first ancestor namespace where it is set.
func (p *Params) Search(ctx context.Context, key string) (string, error) {
	resolved, err := p.resolve(key)
	if err != nil {
		return "", err
	}
	return p.client.SearchParam(ctx, resolved)
}

// Names lists every key currently set on the parameter server.
func (p *Params) Names(ctx context.Context) ([]string, error) {
	return p.client.GetParamNames(ctx)
}

// Subscribe registers callback to be invoked (on whatever goroutine
// the node's slave server delivers the param_update call on) whenever
// key changes, and returns its current value.
func (p *Params) Subscribe(ctx context.Context, key string, callback func(any)) (any, error) {
	resolved, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	v, err := p.client.SubscribeParam(ctx, resolved)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.subs[resolved] = append(p.subs[resolved], callback)
	p.mu.Unlock()
	return v, nil
}

// Unsubscribe retracts every callback registered for key.
func (p *Params) Unsubscribe(ctx context.Context, key string) error {
	resolved, err := p.resolve(key)
	if err != nil {
		return err
	}
	p.mu.Lock()
	delete(p.subs, resolved)
	p.mu.Unlock()
	_, err = p.client.UnsubscribeParam(ctx, resolved)
	return err
}

// HandleParamUpdate dispatches a param_update notification from the
// coordinator to every callback registered for key. It matches
// slave.Registry's ParamUpdate signature so a node can wire it
// straight through to its slave server.
func (p *Params) HandleParamUpdate(key string, value any) error {
	p.mu.Lock()
	callbacks := append([]func(any){}, p.subs[key]...)
	p.mu.Unlock()
	for _, cb := range callbacks {
		cb(value)
	}
	return nil
}
