// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapIamlOcViztS70cΔemwIq0QΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceHT5HUCdynGTSjUglMtQzOAΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ChunkRecordMUS = chunkRecordMUS{}

type chunkRecordMUS struct{}

func (s chunkRecordMUS) Marshal(v ChunkRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.DocumentID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += sliceHT5HUCdynGTSjUglMtQzOAΞΞ.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.DocName, bs[n:])
	n += ord.String.Marshal(v.Chapter, bs[n:])
	n += mapIamlOcViztS70cΔemwIq0QΞΞ.Marshal(v.Extra, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s chunkRecordMUS) Unmarshal(bs []byte) (v ChunkRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceHT5HUCdynGTSjUglMtQzOAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chapter, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Extra, n1, err = mapIamlOcViztS70cΔemwIq0QΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkRecordMUS) Size(v ChunkRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.DocumentID)
	size += ord.String.Size(v.Text)
	size += sliceHT5HUCdynGTSjUglMtQzOAΞΞ.Size(v.Vector)
	size += ord.String.Size(v.DocName)
	size += ord.String.Size(v.Chapter)
	size += mapIamlOcViztS70cΔemwIq0QΞΞ.Size(v.Extra)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s chunkRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceHT5HUCdynGTSjUglMtQzOAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapIamlOcViztS70cΔemwIq0QΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var CollectionMetaMUS = collectionMetaMUS{}

type collectionMetaMUS struct{}

func (s collectionMetaMUS) Marshal(v CollectionMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += varint.Int.Marshal(v.Dimension, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s collectionMetaMUS) Unmarshal(bs []byte) (v CollectionMeta, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Dimension, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s collectionMetaMUS) Size(v CollectionMeta) (size int) {
	size = ord.String.Size(v.Name)
	size += varint.Int.Size(v.Dimension)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s collectionMetaMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
