package service

import "io"

// ProgressFunc receives upload progress as a 0-100 percentage. Callbacks
// fire on the request path, so implementations must be fast and must not
// call back into the client.
type ProgressFunc func(percent int)

// progressReader wraps the encoded request body and reports consumption
// against its total length. The transport reads the body exactly once, so
// bytes read approximate bytes uploaded.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	if p.onProgress != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.onProgress(percent)
		}
	}
	return n, err
}
