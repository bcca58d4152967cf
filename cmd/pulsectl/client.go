package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// doRequest performs one API call and returns the raw response body. Error
// responses still decode client-side: the body carries the error envelope.
func doRequest(method, url string, body any) ([]byte, error) {
	client := resty.New()
	req := client.R()
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return resp.Body(), fmt.Errorf("%s %s: %s", method, url, resp.Status())
	}
	return resp.Body(), nil
}

func doGet(url string) ([]byte, error)            { return doRequest("GET", url, nil) }
func doPost(url string, body any) ([]byte, error) { return doRequest("POST", url, body) }
func doPatch(url string, body any) ([]byte, error) {
	return doRequest("PATCH", url, body)
}
func doDelete(url string) ([]byte, error) { return doRequest("DELETE", url, nil) }
