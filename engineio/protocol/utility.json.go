package protocol

import (
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack"
)

// Duration is a time.Duration that is written on the wire as whole milliseconds.
type Duration time.Duration

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) milliseconds() int64 { return int64(time.Duration(d) / time.Millisecond) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	i, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*d = Duration(time.Duration(i) * time.Millisecond)
	return nil
}

func (d Duration) MarshalJSON() (b []byte, err error) {
	return []byte(strconv.FormatInt(d.milliseconds(), 10)), nil
}

func (d Duration) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(d.milliseconds())
}

func (d *Duration) DecodeMsgpack(dec *msgpack.Decoder) error {
	i, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*d = Duration(time.Duration(i) * time.Millisecond)
	return nil
}
