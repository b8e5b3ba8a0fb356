// Package xmlrpc is a small client and server for the XML-RPC wire
// format, hand-rolled on encoding/xml and net/http: the coordinator and
// every node's slave API speak nothing else (§2, §6). Go values are
// transcoded on the wire using plain native types — bool, int, int64,
// float64, string, []any, map[string]any — rather than a bespoke Value
// tree, since XML-RPC's type set maps onto them directly.
package xmlrpc

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type wireValue struct {
	XMLName  xml.Name   `xml:"value"`
	Int      *string    `xml:"int"`
	I4       *string    `xml:"i4"`
	Boolean  *string    `xml:"boolean"`
	Double   *string    `xml:"double"`
	String   *string    `xml:"string"`
	Array    *wireArray `xml:"array"`
	Struct   *wireStruct `xml:"struct"`
	Text     string     `xml:",chardata"`
}

type wireArray struct {
	Data struct {
		Values []wireValue `xml:"value"`
	} `xml:"data"`
}

type wireStruct struct {
	Members []wireMember `xml:"member"`
}

type wireMember struct {
	Name  string    `xml:"name"`
	Value wireValue `xml:"value"`
}

// toAny converts a decoded wireValue into the corresponding Go value.
func (v wireValue) toAny() (any, error) {
	switch {
	case v.Int != nil:
		return strconv.Atoi(strings.TrimSpace(*v.Int))
	case v.I4 != nil:
		return strconv.Atoi(strings.TrimSpace(*v.I4))
	case v.Boolean != nil:
		switch strings.TrimSpace(*v.Boolean) {
		case "1":
			return true, nil
		case "0":
			return false, nil
		default:
			return nil, fmt.Errorf("xmlrpc: invalid boolean value %q", *v.Boolean)
		}
	case v.Double != nil:
		return strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
	case v.Array != nil:
		out := make([]any, len(v.Array.Data.Values))
		for i, elem := range v.Array.Data.Values {
			conv, err := elem.toAny()
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			conv, err := m.Value.toAny()
			if err != nil {
				return nil, err
			}
			out[m.Name] = conv
		}
		return out, nil
	case v.String != nil:
		return *v.String, nil
	default:
		// No type tag present: XML-RPC treats this as an implicit string.
		return v.Text, nil
	}
}

// writeValue renders v as a <value>...</value> element.
func writeValue(w *strings.Builder, v any) error {
	w.WriteString("<value>")
	defer w.WriteString("</value>")

	switch x := v.(type) {
	case nil:
		w.WriteString("<string></string>")
		return nil
	case bool:
		if x {
			w.WriteString("<boolean>1</boolean>")
		} else {
			w.WriteString("<boolean>0</boolean>")
		}
		return nil
	case int:
		fmt.Fprintf(w, "<int>%d</int>", x)
		return nil
	case int32:
		fmt.Fprintf(w, "<int>%d</int>", x)
		return nil
	case int64:
		fmt.Fprintf(w, "<int>%d</int>", x)
		return nil
	case uint32:
		fmt.Fprintf(w, "<int>%d</int>", x)
		return nil
	case float64:
		fmt.Fprintf(w, "<double>%v</double>", x)
		return nil
	case string:
		w.WriteString("<string>")
		xml.EscapeText(stringsBuilderWriter{w}, []byte(x))
		w.WriteString("</string>")
		return nil
	case []any:
		w.WriteString("<array><data>")
		for _, elem := range x {
			if err := writeValue(w, elem); err != nil {
				return err
			}
		}
		w.WriteString("</data></array>")
		return nil
	case map[string]any:
		w.WriteString("<struct>")
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w.WriteString("<member><name>")
			xml.EscapeText(stringsBuilderWriter{w}, []byte(name))
			w.WriteString("</name>")
			if err := writeValue(w, x[name]); err != nil {
				return err
			}
			w.WriteString("</member>")
		}
		w.WriteString("</struct>")
		return nil
	default:
		return fmt.Errorf("xmlrpc: unsupported value type %T", v)
	}
}

// stringsBuilderWriter adapts *strings.Builder to io.Writer for
// xml.EscapeText, which only accepts io.Writer.
type stringsBuilderWriter struct {
	b *strings.Builder
}

func (w stringsBuilderWriter) Write(p []byte) (int, error) {
	return w.b.Write(p)
}
