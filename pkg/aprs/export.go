// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package aprs

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Wire shapes for snapshot export. Integer keys keep the encoding small
// enough for constrained status consumers.
type exportAddress struct {
	Callsign string `cbor:"1,keyasint"`
	SSID     uint8  `cbor:"2,keyasint"`
}

type exportRecord struct {
	Addresses  []exportAddress `cbor:"1,keyasint"`
	Payload    []byte          `cbor:"2,keyasint"`
	ReceivedAt int64           `cbor:"3,keyasint"` // unix milliseconds
}

// ExportCBOR serializes the store contents, in arrival order, as a CBOR
// array of records. The snapshot shares no storage with the store.
func ExportCBOR(s *Store) ([]byte, error) {
	out := make([]exportRecord, 0, s.Len())
	s.Each(func(_ Handle, rec *Record) bool {
		er := exportRecord{
			Payload:    append([]byte(nil), rec.Payload...),
			ReceivedAt: rec.ReceivedAt.UnixMilli(),
		}
		for _, a := range rec.Addresses {
			er.Addresses = append(er.Addresses, exportAddress{Callsign: a.Callsign, SSID: a.SSID})
		}
		out = append(out, er)
		return true
	})

	data, err := cbor.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode packet snapshot: %w", err)
	}
	return data, nil
}

// ImportCBOR decodes a snapshot produced by ExportCBOR.
func ImportCBOR(data []byte) ([]Record, error) {
	var in []exportRecord
	if err := cbor.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode packet snapshot: %w", err)
	}

	recs := make([]Record, 0, len(in))
	for _, er := range in {
		rec := Record{Payload: er.Payload, ReceivedAt: time.UnixMilli(er.ReceivedAt)}
		for _, a := range er.Addresses {
			rec.Addresses = append(rec.Addresses, Address{Callsign: a.Callsign, SSID: a.SSID})
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
