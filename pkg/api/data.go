package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

type Parameter map[string]string

// Encode sorts the keys so that the same query always produces the same url.
func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, percentEncode(key)+"="+percentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type JSON map[string]any

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}

	return bytes.NewBuffer(b), "application/json", nil
}

func (j JSON) GetString(key string) (string, error) {
	value, ok := j[key]
	if !ok {
		return "", fmt.Errorf("not found field %s", key)
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func bytesToJSON(body []byte) (JSON, error) {
	result := JSON{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    JSON
	RawBody []byte
}

// OK reports whether the endpoint answered with a 2xx status.
func (r *Response) OK() bool {
	return r.Code >= http.StatusOK && r.Code < http.StatusMultipleChoices
}

// Decode unmarshals the raw body into v. Large integers keep their precision when
// v uses json.Number or a decimal type.
func (r *Response) Decode(v any) error {
	decoder := json.NewDecoder(bytes.NewReader(r.RawBody))
	decoder.UseNumber()
	return decoder.Decode(v)
}
