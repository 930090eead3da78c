package fetch

import (
	"strconv"
	"strings"

	"github.com/speedboat/jsrt/internal/jserr"
)

// Callbacks is the push-parser contract from spec.md §6: message_begin,
// status, header_field, header_value, headers_complete, body,
// message_complete.
type Callbacks struct {
	OnMessageBegin    func()
	OnStatus          func(httpVersion string, statusCode int, statusText string)
	OnHeaderField     func(name string)
	OnHeaderValue     func(value string)
	OnHeadersComplete func()
	OnBody            func(chunk []byte)
	OnMessageComplete func()
}

type parserState int

const (
	parserStateStatusLine parserState = iota
	parserStateHeaders
	parserStateBody
	parserStateChunkedSize
	parserStateChunkedData
	parserStateChunkedTrailer
	parserStateDone
)

// Parser is a streaming HTTP/1.1 response parser: Feed is called as bytes
// arrive (per the Receiving state), buffering only the current unterminated
// line/chunk.
type Parser struct {
	cb    Callbacks
	state parserState
	buf   []byte

	contentLength  int64
	haveLength     bool
	chunked        bool
	remainingChunk int64
	bodyBytesRead  int64
	begun          bool
}

func NewParser(cb Callbacks) *Parser {
	return &Parser{cb: cb}
}

// Feed processes newly-received bytes, invoking callbacks as complete
// pieces become available. It may be called multiple times as the
// underlying connection yields more data.
func (p *Parser) Feed(data []byte) error {
	if !p.begun {
		p.begun = true
		if p.cb.OnMessageBegin != nil {
			p.cb.OnMessageBegin()
		}
	}
	p.buf = append(p.buf, data...)

	for {
		switch p.state {
		case parserStateStatusLine:
			line, rest, ok := splitLine(p.buf)
			if !ok {
				return nil
			}
			p.buf = rest
			if err := p.parseStatusLine(line); err != nil {
				return err
			}
			p.state = parserStateHeaders

		case parserStateHeaders:
			line, rest, ok := splitLine(p.buf)
			if !ok {
				return nil
			}
			p.buf = rest
			if len(line) == 0 {
				if p.cb.OnHeadersComplete != nil {
					p.cb.OnHeadersComplete()
				}
				if p.chunked {
					p.state = parserStateChunkedSize
				} else if p.haveLength && p.contentLength == 0 {
					p.finish()
					return nil
				} else {
					p.state = parserStateBody
				}
				continue
			}
			if err := p.parseHeaderLine(line); err != nil {
				return err
			}

		case parserStateBody:
			if p.haveLength {
				remaining := p.contentLength - p.bodyBytesRead
				take := int64(len(p.buf))
				if take > remaining {
					take = remaining
				}
				if take > 0 {
					if p.cb.OnBody != nil {
						p.cb.OnBody(p.buf[:take])
					}
					p.bodyBytesRead += take
					p.buf = p.buf[take:]
				}
				if p.bodyBytesRead >= p.contentLength {
					p.finish()
				}
				return nil
			}
			// No declared length and not chunked: everything received so
			// far is body; completion is signalled by EOF (see Close).
			if len(p.buf) > 0 && p.cb.OnBody != nil {
				p.cb.OnBody(p.buf)
				p.buf = nil
			}
			return nil

		case parserStateChunkedSize:
			line, rest, ok := splitLine(p.buf)
			if !ok {
				return nil
			}
			p.buf = rest
			size, err := parseChunkSize(line)
			if err != nil {
				return err
			}
			p.remainingChunk = size
			if size == 0 {
				p.state = parserStateChunkedTrailer
				continue
			}
			p.state = parserStateChunkedData

		case parserStateChunkedData:
			take := p.remainingChunk
			if take > int64(len(p.buf)) {
				take = int64(len(p.buf))
			}
			if take > 0 {
				if p.cb.OnBody != nil {
					p.cb.OnBody(p.buf[:take])
				}
				p.buf = p.buf[take:]
				p.remainingChunk -= take
			}
			if p.remainingChunk > 0 {
				return nil
			}
			// consume trailing CRLF after chunk data
			if len(p.buf) < 2 {
				return nil
			}
			p.buf = p.buf[2:]
			p.state = parserStateChunkedSize

		case parserStateChunkedTrailer:
			line, rest, ok := splitLine(p.buf)
			if !ok {
				return nil
			}
			p.buf = rest
			if len(line) == 0 {
				p.finish()
				return nil
			}

		case parserStateDone:
			return nil
		}
	}
}

// Close signals EOF: a response with no declared Content-Length and no
// chunked encoding is considered complete when the connection closes, per
// spec.md §4.12's "EOF with usable message -> resolve" transition.
func (p *Parser) Close() {
	if p.state == parserStateBody && !p.haveLength && !p.chunked {
		p.finish()
	}
}

func (p *Parser) finish() {
	if p.state == parserStateDone {
		return
	}
	p.state = parserStateDone
	if p.cb.OnMessageComplete != nil {
		p.cb.OnMessageComplete()
	}
}

func (p *Parser) parseStatusLine(line []byte) error {
	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) < 2 {
		return jserr.New(jserr.CodeHTTPProtocol, "malformed status line")
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return jserr.Wrap(jserr.CodeHTTPProtocol, "malformed status code", err)
	}
	text := ""
	if len(parts) == 3 {
		text = parts[2]
	}
	if p.cb.OnStatus != nil {
		p.cb.OnStatus(parts[0], code, text)
	}
	return nil
}

func (p *Parser) parseHeaderLine(line []byte) error {
	idx := indexByte(line, ':')
	if idx < 0 {
		return jserr.New(jserr.CodeHTTPProtocol, "malformed header line")
	}
	name := strings.TrimSpace(string(line[:idx]))
	value := strings.TrimSpace(string(line[idx+1:]))
	if p.cb.OnHeaderField != nil {
		p.cb.OnHeaderField(name)
	}
	if p.cb.OnHeaderValue != nil {
		p.cb.OnHeaderValue(value)
	}
	if equalFoldHeader(name, "Content-Length") {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return jserr.Wrap(jserr.CodeHTTPProtocol, "invalid Content-Length", err)
		}
		p.contentLength = n
		p.haveLength = true
	}
	if equalFoldHeader(name, "Transfer-Encoding") && strings.Contains(strings.ToLower(value), "chunked") {
		p.chunked = true
	}
	return nil
}

func parseChunkSize(line []byte) (int64, error) {
	s := string(line)
	if idx := indexByte(line, ';'); idx >= 0 {
		s = s[:idx]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 16, 64)
	if err != nil {
		return 0, jserr.Wrap(jserr.CodeHTTPProtocol, "invalid chunk size", err)
	}
	return n, nil
}

func splitLine(buf []byte) (line, rest []byte, ok bool) {
	idx := indexOfCRLF(buf)
	if idx < 0 {
		return nil, buf, false
	}
	return buf[:idx], buf[idx+2:], true
}

func indexOfCRLF(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' {
			return i
		}
	}
	return -1
}

func indexByte(buf []byte, b byte) int {
	for i, c := range buf {
		if c == b {
			return i
		}
	}
	return -1
}
