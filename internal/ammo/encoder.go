// Package ammo encodes HTTP requests into the length-prefixed ammo format.
//
// Each record is a header line "<size> <tag>\n" followed by exactly <size>
// bytes holding a raw HTTP/1.1 request and a trailing "\r\n" separator:
//
//	314 put
//	PUT /v0/entity?id=1f3a HTTP/1.1\r\n
//	Content-Length: 256\r\n
//	\r\n
//	<256 body bytes>\r\n
package ammo

import (
	"strconv"
)

// DefaultURLPrefix is the entity endpoint keys are appended to.
const DefaultURLPrefix = "/v0/entity?id="

const (
	httpVersion   = " HTTP/1.1\r\n"
	contentLength = "Content-Length: "
	crlf          = "\r\n"
)

// EntityURL returns the request target for key.
func EntityURL(prefix, key string) string {
	return prefix + key
}

// RequestSize returns the byte length of the HTTP block Encode writes after
// the header line.
func RequestSize(method, url string, body []byte) int {
	n := len(method) + 1 + len(url) + len(httpVersion)
	if body != nil {
		n += len(contentLength) + len(strconv.Itoa(len(body))) + 2*len(crlf) + len(body)
	} else {
		n += len(crlf)
	}
	return n + len(crlf)
}

// Encode returns the ammo record for one request. A nil body omits the
// Content-Length header; an empty non-nil body sends "Content-Length: 0".
func Encode(method, url, tag string, body []byte) []byte {
	return AppendEncode(nil, method, url, tag, body)
}

// AppendEncode appends the ammo record for one request to dst.
func AppendEncode(dst []byte, method, url, tag string, body []byte) []byte {
	size := RequestSize(method, url, body)

	dst = strconv.AppendInt(dst, int64(size), 10)
	dst = append(dst, ' ')
	dst = append(dst, tag...)
	dst = append(dst, '\n')

	dst = append(dst, method...)
	dst = append(dst, ' ')
	dst = append(dst, url...)
	dst = append(dst, httpVersion...)
	if body != nil {
		dst = append(dst, contentLength...)
		dst = strconv.AppendInt(dst, int64(len(body)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, crlf...)
		dst = append(dst, body...)
	} else {
		dst = append(dst, crlf...)
	}
	return append(dst, crlf...)
}
