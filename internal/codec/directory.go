package codec

import (
	"bytes"
	"pduchat/internal/pdu"
)

const directoryRecordHeader = 8

func EncodeDirectoryQuery() []byte {
	return []byte{byte(pdu.OpGetList), 0, 0, 0}
}

// EncodeDirectoryReply writes one SLIST datagram. Count is written as given
// so a reply can advertise more records than it carries.
func EncodeDirectoryReply(r DirectoryReply) ([]byte, error) {
	size := 4
	for _, rec := range r.Records {
		if err := checkByteField("server name", len(rec.Name)); err != nil {
			return nil, err
		}
		size += directoryRecordHeader + pdu.Pad(len(rec.Name))
	}

	w := newFrameWriter(size)
	w.byte(0, uint8(pdu.OpSList))
	w.byte(1, r.Sequence)
	w.short(2, r.Count)
	off := 4
	for _, rec := range r.Records {
		w.bytes(off, rec.Addr[:])
		w.short(off+4, rec.Port)
		w.byte(off+6, rec.Clients)
		w.byte(off+7, uint8(len(rec.Name)))
		w.bytes(off+8, []byte(rec.Name))
		off += directoryRecordHeader + pdu.Pad(len(rec.Name))
	}
	return w.finish()
}

// DecodeDirectoryReply parses a single SLIST datagram with its records
// starting right after the 4-byte header.
func DecodeDirectoryReply(b []byte) (DirectoryReply, error) {
	r := newFrameReader(b)
	r.expect(pdu.OpSList)
	seq := r.byte(1)
	count := r.short(2)
	if r.err != nil {
		return DirectoryReply{}, r.err
	}
	records, err := DecodeDirectoryRecords(b, 4, int(count))
	return DirectoryReply{Sequence: seq, Count: count, Records: records}, err
}

// DecodeDirectoryRecords reads up to limit records starting at offset and
// stops at the end of b. Records parsed before a truncated one are returned
// together with ErrTruncated.
func DecodeDirectoryRecords(b []byte, offset, limit int) ([]DirectoryRecord, error) {
	r := newFrameReader(b)
	var records []DirectoryRecord
	for len(records) < limit && offset+directoryRecordHeader <= len(b) {
		var rec DirectoryRecord
		copy(rec.Addr[:], r.bytes(offset, 4))
		rec.Port = r.short(offset + 4)
		rec.Clients = r.byte(offset + 6)
		nameLen := int(r.byte(offset + 7))
		name := r.bytes(offset+directoryRecordHeader, nameLen)
		if r.err != nil {
			return records, r.err
		}
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		rec.Name = string(name)
		records = append(records, rec)
		offset += directoryRecordHeader + pdu.Pad(nameLen)
	}
	return records, nil
}
