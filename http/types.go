package http

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Request HTTP Request
type Request struct {
	url     string
	query   url.Values
	headers http.Header
	data    interface{}
	ctx     context.Context
	timeout time.Duration
}

// Response HTTP Response
type Response struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Headers http.Header `json:"headers"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Body    []byte      `json:"-"` // The raw response body
}
