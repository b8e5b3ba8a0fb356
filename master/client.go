package master

import (
	"context"

	"rosnode/xmlrpc"
)

// Client calls the coordinator's Master and Parameter Server APIs on
// behalf of a single node, identified by callerID (this node's fully
// resolved graph name) and callerAPI (this node's own slave URI).
type Client struct {
	xr       *xmlrpc.Client
	callerID string
	callerAPI string
}

// NewClient returns a Client for the coordinator at uri.
func NewClient(uri, callerID, callerAPI string) *Client {
	return &Client{xr: xmlrpc.NewClient(uri), callerID: callerID, callerAPI: callerAPI}
}

// call invokes method with callerID prepended and the given args,
// decodes the [code, message, value] envelope, and turns a non-success
// code into a *CoordinatorError.
func (c *Client) call(ctx context.Context, method string, args ...any) (any, error) {
	full := append([]any{c.callerID}, args...)
	result, err := c.xr.Call(ctx, method, full...)
	if err != nil {
		return nil, err
	}
	env, err := xmlrpc.DecodeEnvelope(result)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, &CoordinatorError{Method: method, Code: env.Code, Message: env.Message}
	}
	return env.Value, nil
}

// RegisterService advertises that this node offers service at serviceAPI.
func (c *Client) RegisterService(ctx context.Context, service, serviceAPI string) error {
	_, err := c.call(ctx, "registerService", service, serviceAPI, c.callerAPI)
	return err
}

// UnregisterService retracts this node's service advertisement and
// returns the number of registrations removed.
func (c *Client) UnregisterService(ctx context.Context, service, serviceAPI string) (int, error) {
	v, err := c.call(ctx, "unregisterService", service, serviceAPI)
	if err != nil {
		return 0, err
	}
	return asInt(v), nil
}

// RegisterSubscriber tells the coordinator this node subscribes to
// topic, and returns the current publisher slave API URIs for it.
func (c *Client) RegisterSubscriber(ctx context.Context, topic, topicType string) ([]string, error) {
	v, err := c.call(ctx, "registerSubscriber", topic, topicType, c.callerAPI)
	if err != nil {
		return nil, err
	}
	return asStringSlice(v), nil
}

// UnregisterSubscriber retracts this node's subscription.
func (c *Client) UnregisterSubscriber(ctx context.Context, topic string) (int, error) {
	v, err := c.call(ctx, "unregisterSubscriber", topic, c.callerAPI)
	if err != nil {
		return 0, err
	}
	return asInt(v), nil
}

// RegisterPublisher tells the coordinator this node publishes topic,
// and returns the current subscriber slave API URIs for it.
func (c *Client) RegisterPublisher(ctx context.Context, topic, topicType string) ([]string, error) {
	v, err := c.call(ctx, "registerPublisher", topic, topicType, c.callerAPI)
	if err != nil {
		return nil, err
	}
	return asStringSlice(v), nil
}

// UnregisterPublisher retracts this node's publication.
func (c *Client) UnregisterPublisher(ctx context.Context, topic string) (int, error) {
	v, err := c.call(ctx, "unregisterPublisher", topic, c.callerAPI)
	if err != nil {
		return 0, err
	}
	return asInt(v), nil
}

// LookupNode resolves a node's graph name to its slave API URI.
func (c *Client) LookupNode(ctx context.Context, nodeName string) (string, error) {
	v, err := c.call(ctx, "lookupNode", nodeName)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// LookupService resolves a service name to its serving node's service
// connection URI (rosrpc://host:port).
func (c *Client) LookupService(ctx context.Context, service string) (string, error) {
	v, err := c.call(ctx, "lookupService", service)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// GetPublishedTopics returns the [topic, type] pairs currently
// published within subgraph (empty string matches everything).
func (c *Client) GetPublishedTopics(ctx context.Context, subgraph string) ([][2]string, error) {
	v, err := c.call(ctx, "getPublishedTopics", subgraph)
	if err != nil {
		return nil, err
	}
	return asPairSlice(v), nil
}

// GetTopicTypes returns the [topic, type] pairs for every topic the
// coordinator currently knows about.
func (c *Client) GetTopicTypes(ctx context.Context) ([][2]string, error) {
	v, err := c.call(ctx, "getTopicTypes")
	if err != nil {
		return nil, err
	}
	return asPairSlice(v), nil
}

// GetURI returns the coordinator's own URI.
func (c *Client) GetURI(ctx context.Context) (string, error) {
	v, err := c.call(ctx, "getUri")
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// GetParam fetches key's current value from the parameter server.
func (c *Client) GetParam(ctx context.Context, key string) (any, error) {
	return c.call(ctx, "getParam", key)
}

// SetParam assigns key to value on the parameter server.
func (c *Client) SetParam(ctx context.Context, key string, value any) error {
	_, err := c.call(ctx, "setParam", key, value)
	return err
}

// DeleteParam removes key from the parameter server.
func (c *Client) DeleteParam(ctx context.Context, key string) error {
	_, err := c.call(ctx, "deleteParam", key)
	return err
}

// HasParam reports whether key currently has a value.
func (c *Client) HasParam(ctx context.Context, key string) (bool, error) {
	v, err := c.call(ctx, "hasParam", key)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// SearchParam resolves key against the parameter server's namespace
// search rules, returning the first ancestor namespace where it exists.
func (c *Client) SearchParam(ctx context.Context, key string) (string, error) {
	v, err := c.call(ctx, "searchParam", key)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// GetParamNames lists every key currently set on the parameter server.
func (c *Client) GetParamNames(ctx context.Context) ([]string, error) {
	v, err := c.call(ctx, "getParamNames")
	if err != nil {
		return nil, err
	}
	return asStringSlice(v), nil
}

// SubscribeParam registers this node's callerAPI to receive
// param_update callbacks for key, and returns its current value.
func (c *Client) SubscribeParam(ctx context.Context, key string) (any, error) {
	return c.call(ctx, "subscribeParam", key)
}

// UnsubscribeParam retracts a prior SubscribeParam registration.
func (c *Client) UnsubscribeParam(ctx context.Context, key string) (int, error) {
	v, err := c.call(ctx, "unsubscribeParam", key)
	if err != nil {
		return 0, err
	}
	return asInt(v), nil
}

func asInt(v any) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, elem := range arr {
		if s, ok := elem.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asPairSlice(v any) [][2]string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([][2]string, 0, len(arr))
	for _, elem := range arr {
		pair, ok := elem.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		a, _ := pair[0].(string)
		b, _ := pair[1].(string)
		out = append(out, [2]string{a, b})
	}
	return out
}
