package input

import "encoding/binary"

// decodeEvents splits buf into input_event records of recordSize bytes. The
// leading timeval is skipped; a trailing partial record is dropped.
func decodeEvents(buf []byte, recordSize int) []RawEvent {
	if recordSize <= 8 {
		return nil
	}
	tv := recordSize - 8
	out := make([]RawEvent, 0, len(buf)/recordSize)
	for off := 0; off+recordSize <= len(buf); off += recordSize {
		rec := buf[off+tv : off+recordSize]
		out = append(out, RawEvent{
			Type:  binary.NativeEndian.Uint16(rec[0:2]),
			Code:  binary.NativeEndian.Uint16(rec[2:4]),
			Value: int32(binary.NativeEndian.Uint32(rec[4:8])),
		})
	}
	return out
}
