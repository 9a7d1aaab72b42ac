package queue

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = (*Queue[string])(nil)
	_ msgpack.CustomDecoder = (*Queue[string])(nil)
)

// EncodeMsgpack writes the queued items as a msgpack array, front first.
func (q *Queue[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(q.Len()); err != nil {
		return err
	}
	for _, item := range q.items[q.head:] {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding queue item: %w", err)
		}
	}
	return nil
}

// DecodeMsgpack replaces the contents of q with a decoded msgpack array.
func (q *Queue[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	q.head = 0
	if n < 0 {
		q.items = q.items[:0]
		return nil
	}
	q.items = make([]T, 0, n)
	for i := 0; i < n; i++ {
		var item T
		if err := dec.Decode(&item); err != nil {
			return fmt.Errorf("decoding queue item %d: %w", i, err)
		}
		q.items = append(q.items, item)
	}
	return nil
}
