package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// New make a new  http Request
func New(url string) *Request {
	return &Request{
		url:     url,
		headers: http.Header{},
		query:   neturl.Values{},
		ctx:     context.Background(),
	}
}

// ResponseError return new  error response
func ResponseError(code int, message string) *Response {
	return &Response{
		Code:    code,
		Status:  code,
		Message: message,
		Headers: http.Header{},
		Data:    nil,
	}
}

// AddHeader set the request header
func (r *Request) AddHeader(name, value string) *Request {
	r.headers.Add(name, value)
	return r
}

// DelHeader unset the request header
func (r *Request) DelHeader(name string) *Request {
	r.headers.Del(name)
	return r
}

// GetHeader get the request header
func (r *Request) GetHeader(name string) string {
	return r.headers.Get(name)
}

// SetHeader set the request header
func (r *Request) SetHeader(name string, value string) *Request {
	r.headers.Set(name, value)
	return r
}

// HasHeader check if the header name is exists
func (r *Request) HasHeader(name string) bool {
	return r.headers.Get(name) != ""
}

// WithHeader set the request headers
func (r *Request) WithHeader(headers http.Header) *Request {
	r.headers = headers
	return r
}

// WithQuery set the request query params
func (r *Request) WithQuery(values neturl.Values) *Request {
	r.query = values
	return r
}

// WithContext set the request context
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// WithTimeout set the request timeout, 0 means no timeout
func (r *Request) WithTimeout(timeout time.Duration) *Request {
	r.timeout = timeout
	return r
}

// Get send the GET request
func (r *Request) Get() *Response {
	if !r.HasHeader("Content-Type") {
		r.AddHeader("Content-Type", "application/json; charset=utf-8")
	}
	return r.Send("GET", nil)
}

// Post send the POST request
func (r *Request) Post(data interface{}) *Response {
	if !r.HasHeader("Content-Type") {
		r.AddHeader("Content-Type", "application/json; charset=utf-8")
	}
	return r.Send("POST", data)
}

// Send  send the request
func (r *Request) Send(method string, data interface{}) *Response {

	var body []byte

	if data != nil {
		r.data = data
	}

	if method != "GET" && method != "HEAD" {
		if r.headers.Get("Content-Type") == "" {
			r.headers.Set("Content-Type", "text/plain")
		}

		var res *Response
		body, res = r.body()
		if res != nil {
			return res
		}
	}

	requestURL, err := r.requestURL()
	if err != nil {
		return ResponseError(0, err.Error())
	}

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewBuffer(body))
	if err != nil {
		return ResponseError(0, fmt.Sprintf("http.NewRequest: %s", err.Error()))
	}

	// Request Header
	req.Header = r.headers

	tr := &http.Transport{Proxy: http.ProxyFromEnvironment}
	client := &http.Client{Transport: tr}
	defer tr.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		return ResponseError(0, err.Error())
	}

	if resp.Body != nil {
		defer resp.Body.Close()
	}

	res := &Response{
		Status:  resp.StatusCode,
		Data:    nil,
		Code:    resp.StatusCode,
		Headers: resp.Header,
	}

	if method == "HEAD" {
		return res
	}

	rBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseError(resp.StatusCode, err.Error())
	}

	res.Body = rBody
	if len(rBody) == 0 {
		return res
	}

	res.Data = rBody
	var rData interface{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		err = jsoniter.Unmarshal(rBody, &rData)
		if err != nil {
			return ResponseError(resp.StatusCode, err.Error())
		}
	}

	if rData != nil {
		res.Data = rData
		res.Message = message(rData)
	}

	return res
}

// Bind decodes the JSON response body into v
func (res *Response) Bind(v interface{}) error {
	if len(res.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return jsoniter.Unmarshal(res.Body, v)
}

// requestURL merges the query string of the url with the query params
func (r *Request) requestURL() (string, error) {
	requestURL := r.url
	if strings.Contains(requestURL, "?") {
		uri := strings.SplitN(requestURL, "?", 2)
		requestURL = uri[0]
		query, err := neturl.ParseQuery(uri[1])
		if err != nil {
			return "", err
		}
		for name, values := range query {
			for _, value := range values {
				r.query.Add(name, value)
			}
		}
	}

	if len(r.query) > 0 {
		requestURL = fmt.Sprintf("%s?%s", requestURL, r.query.Encode())
	}
	return requestURL, nil
}

// message reads the error message of a JSON response, {"message": ...} or {"error": {"message": ...}}
func message(data interface{}) string {
	value, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}

	if v, ok := value["message"].(string); ok {
		return v
	}

	if e, ok := value["error"].(map[string]interface{}); ok {
		if v, ok := e["message"].(string); ok {
			return v
		}
	}

	if v, ok := value["error"].(string); ok {
		return v
	}
	return ""
}

// body
func (r *Request) body() ([]byte, *Response) {

	if r.data == nil {
		return nil, nil
	}

	if r.json() {
		return r.jsonBody()
	}

	if r.text() {
		switch data := r.data.(type) {
		case []byte:
			return data, nil
		case string:
			return []byte(data), nil
		default:
			return r.jsonBody()
		}
	}

	return nil, ResponseError(0, fmt.Sprintf("Content-Type Error: %#v", r.headers.Get("Content-Type")))
}

// json check if the content-type is application/json
func (r *Request) json() bool {
	return strings.HasPrefix(r.headers.Get("Content-Type"), "application/json")
}

// text check if the content-type is text/plain
func (r *Request) text() bool {
	return strings.HasPrefix(r.headers.Get("Content-Type"), "text/plain")
}

func (r *Request) jsonBody() ([]byte, *Response) {
	body, err := jsoniter.Marshal(r.data)
	if err != nil {
		return nil, ResponseError(0, err.Error())
	}
	return body, nil
}
