package xmlrpc

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FaultError reports an XML-RPC <fault>.
type FaultError struct {
	Code   int
	String string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", e.Code, e.String)
}

// Client calls methods on a remote XML-RPC server over HTTP.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a Client that POSTs to url using a default HTTP
// client with a bounded per-call timeout.
func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Call invokes method on the remote server with args and returns the
// decoded result, or a *FaultError if the server returned a fault.
func (c *Client) Call(ctx context.Context, method string, args ...any) (any, error) {
	body, err := encodeMethodCall(method, args)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeMethodResponse(respBody)
}

func encodeMethodCall(method string, args []any) ([]byte, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<methodCall><methodName>")
	xml.EscapeText(stringsBuilderWriter{&b}, []byte(method))
	b.WriteString("</methodName><params>")
	for _, arg := range args {
		b.WriteString("<param>")
		if err := writeValue(&b, arg); err != nil {
			return nil, err
		}
		b.WriteString("</param>")
	}
	b.WriteString("</params></methodCall>")
	return []byte(b.String()), nil
}

func decodeMethodResponse(data []byte) (any, error) {
	var resp struct {
		XMLName xml.Name `xml:"methodResponse"`
		Params  *struct {
			Param []wireValue `xml:"param>value"`
		} `xml:"params"`
		Fault *struct {
			Value wireValue `xml:"value"`
		} `xml:"fault"`
	}
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("xmlrpc: decoding methodResponse: %w", err)
	}
	if resp.Fault != nil {
		fv, err := resp.Fault.Value.toAny()
		if err != nil {
			return nil, err
		}
		m, ok := fv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("xmlrpc: fault value is not a struct")
		}
		code, _ := m["faultCode"].(int)
		str, _ := m["faultString"].(string)
		return nil, &FaultError{Code: code, String: str}
	}
	if resp.Params == nil || len(resp.Params.Param) == 0 {
		return nil, nil
	}
	return resp.Params.Param[0].toAny()
}
