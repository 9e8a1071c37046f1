package tfproto

import (
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrWireType is returned when a known field arrives with an unexpected wire type.
var ErrWireType = errors.New("unexpected wire type")

// UnmarshalTensor decodes a TensorProto.
func UnmarshalTensor(data []byte) (*TensorProto, error) {
	p := &parser{data: data}
	t := &TensorProto{}
	if err := p.readTensorProto(t); err != nil {
		return nil, fmt.Errorf("failed to parse tensor: %w", err)
	}
	return t, nil
}

// UnmarshalExample decodes an Example.
func UnmarshalExample(data []byte) (*Example, error) {
	p := &parser{data: data}
	ex := &Example{Features: make(map[string]Feature)}
	if err := p.readExample(ex); err != nil {
		return nil, fmt.Errorf("failed to parse example: %w", err)
	}
	return ex, nil
}

// parser is a minimal protobuf wire format decoder over one message.
type parser struct {
	data []byte
	pos  int
}

func (p *parser) sub(data []byte) *parser {
	return &parser{data: data}
}

// readTensorProto reads TensorProto message.
//
//nolint:gocognit,gocyclo,cyclop,funlen // Protobuf parsing requires field-by-field switch logic
func (p *parser) readTensorProto(m *TensorProto) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch fieldNum {
		case fieldTensorDType:
			var v uint64
			v, err = p.readVarintField(wireType)
			m.DType = DataType(int32(v)) //nolint:gosec // G115: proto enum is int32
		case fieldTensorShape:
			data, err2 := p.readBytesField(wireType)
			if err2 != nil {
				return err2
			}
			m.Shape = &TensorShapeProto{}
			err = p.sub(data).readTensorShape(m.Shape)
		case fieldTensorVersion:
			var v uint64
			v, err = p.readVarintField(wireType)
			m.VersionNumber = int32(v) //nolint:gosec // G115: proto int32 truncation
		case fieldTensorContent:
			m.TensorContent, err = p.readBytesField(wireType)
		case fieldTensorFloatVal:
			err = p.readRepeatedFixed32(wireType, func(v uint32) {
				m.FloatVal = append(m.FloatVal, math.Float32frombits(v))
			})
		case fieldTensorDoubleVal:
			err = p.readRepeatedFixed64(wireType, func(v uint64) {
				m.DoubleVal = append(m.DoubleVal, math.Float64frombits(v))
			})
		case fieldTensorIntVal:
			err = p.readRepeatedVarint(wireType, func(v uint64) {
				m.IntVal = append(m.IntVal, int32(v)) //nolint:gosec // G115: proto int32 truncation
			})
		case fieldTensorStringVal:
			var data []byte
			data, err = p.readBytesField(wireType)
			m.StringVal = append(m.StringVal, data)
		case fieldTensorInt64Val:
			err = p.readRepeatedVarint(wireType, func(v uint64) {
				m.Int64Val = append(m.Int64Val, int64(v)) //nolint:gosec // G115: proto int64 encoding
			})
		case fieldTensorBoolVal:
			err = p.readRepeatedVarint(wireType, func(v uint64) {
				m.BoolVal = append(m.BoolVal, protowire.DecodeBool(v))
			})
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return err
		}
	}
}

// readTensorShape reads TensorShapeProto message.
func (p *parser) readTensorShape(m *TensorShapeProto) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch fieldNum {
		case fieldShapeDim:
			data, err2 := p.readBytesField(wireType)
			if err2 != nil {
				return err2
			}
			dim := Dim{}
			err = p.sub(data).readDim(&dim)
			m.Dims = append(m.Dims, dim)
		case fieldShapeUnknownRank:
			var v uint64
			v, err = p.readVarintField(wireType)
			m.UnknownRank = protowire.DecodeBool(v)
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return err
		}
	}
}

// readDim reads TensorShapeProto.Dim message.
func (p *parser) readDim(m *Dim) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch fieldNum {
		case fieldDimSize:
			var v uint64
			v, err = p.readVarintField(wireType)
			m.Size = int64(v) //nolint:gosec // G115: proto int64 encoding
		case fieldDimName:
			var data []byte
			data, err = p.readBytesField(wireType)
			m.Name = string(data)
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return err
		}
	}
}

// readExample reads Example message.
func (p *parser) readExample(m *Example) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch fieldNum {
		case fieldExampleFeatures:
			data, err2 := p.readBytesField(wireType)
			if err2 != nil {
				return err2
			}
			err = p.sub(data).readFeatures(m)
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return err
		}
	}
}

// readFeatures reads Features message; repeated map entries merge, a later
// entry for the same key wins.
func (p *parser) readFeatures(m *Example) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch fieldNum {
		case fieldFeaturesFeature:
			data, err2 := p.readBytesField(wireType)
			if err2 != nil {
				return err2
			}
			key, feature, err2 := p.sub(data).readFeatureEntry()
			if err2 != nil {
				return err2
			}
			m.Features[key] = feature
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return err
		}
	}
}

// readFeatureEntry reads one map<string, Feature> entry.
func (p *parser) readFeatureEntry() (string, Feature, error) {
	var key string
	var feature Feature
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return key, feature, nil
		}
		if err != nil {
			return "", Feature{}, err
		}

		switch fieldNum {
		case fieldMapKey:
			var data []byte
			data, err = p.readBytesField(wireType)
			key = string(data)
		case fieldMapValue:
			var data []byte
			data, err = p.readBytesField(wireType)
			if err == nil {
				err = p.sub(data).readFeature(&feature)
			}
		default:
			err = p.skipField(fieldNum, wireType)
		}

		if err != nil {
			return "", Feature{}, err
		}
	}
}

// readFeature reads Feature message.
//
//nolint:gocognit // oneof with three list kinds
func (p *parser) readFeature(m *Feature) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if fieldNum != fieldFeatureBytesList && fieldNum != fieldFeatureFloatList && fieldNum != fieldFeatureInt64List {
			if err := p.skipField(fieldNum, wireType); err != nil {
				return err
			}
			continue
		}

		data, err := p.readBytesField(wireType)
		if err != nil {
			return err
		}

		// Last oneof member on the wire wins.
		*m = Feature{}
		list := p.sub(data)
		switch fieldNum {
		case fieldFeatureBytesList:
			m.Kind = KindBytes
			err = list.readList(func(wt protowire.Type) error {
				v, err := list.readBytesField(wt)
				m.Bytes = append(m.Bytes, v)
				return err
			})
		case fieldFeatureFloatList:
			m.Kind = KindFloat
			err = list.readList(func(wt protowire.Type) error {
				return list.readRepeatedFixed32(wt, func(v uint32) {
					m.Floats = append(m.Floats, math.Float32frombits(v))
				})
			})
		case fieldFeatureInt64List:
			m.Kind = KindInt64
			err = list.readList(func(wt protowire.Type) error {
				return list.readRepeatedVarint(wt, func(v uint64) {
					m.Int64s = append(m.Int64s, int64(v)) //nolint:gosec // G115: proto int64 encoding
				})
			})
		}
		if err != nil {
			return err
		}
	}
}

// readList reads a *List message whose only field is value=1.
func (p *parser) readList(readValue func(protowire.Type) error) error {
	for {
		fieldNum, wireType, err := p.readTag()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if fieldNum == fieldListValue {
			err = readValue(wireType)
		} else {
			err = p.skipField(fieldNum, wireType)
		}
		if err != nil {
			return err
		}
	}
}

// readTag reads a protobuf field tag. Returns io.EOF at the end of the message.
func (p *parser) readTag() (protowire.Number, protowire.Type, error) {
	if p.pos >= len(p.data) {
		return 0, 0, io.EOF
	}
	num, typ, n := protowire.ConsumeTag(p.data[p.pos:])
	if n < 0 {
		return 0, 0, fmt.Errorf("failed to read tag at offset %d: %w", p.pos, protowire.ParseError(n))
	}
	p.pos += n
	return num, typ, nil
}

func (p *parser) readVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(p.data[p.pos:])
	if n < 0 {
		return 0, fmt.Errorf("failed to read varint at offset %d: %w", p.pos, protowire.ParseError(n))
	}
	p.pos += n
	return v, nil
}

func (p *parser) readVarintField(wireType protowire.Type) (uint64, error) {
	if wireType != protowire.VarintType {
		return 0, fmt.Errorf("%w: got %d, want varint", ErrWireType, wireType)
	}
	return p.readVarint()
}

// readBytesField reads a length-delimited field. The result aliases the input.
func (p *parser) readBytesField(wireType protowire.Type) ([]byte, error) {
	if wireType != protowire.BytesType {
		return nil, fmt.Errorf("%w: got %d, want bytes", ErrWireType, wireType)
	}
	v, n := protowire.ConsumeBytes(p.data[p.pos:])
	if n < 0 {
		return nil, fmt.Errorf("failed to read bytes at offset %d: %w", p.pos, protowire.ParseError(n))
	}
	p.pos += n
	return v, nil
}

// readRepeatedVarint reads one unpacked varint or a packed run of them.
func (p *parser) readRepeatedVarint(wireType protowire.Type, add func(uint64)) error {
	switch wireType {
	case protowire.VarintType:
		v, err := p.readVarint()
		if err != nil {
			return err
		}
		add(v)
		return nil
	case protowire.BytesType:
		packed, err := p.readBytesField(wireType)
		if err != nil {
			return err
		}
		for len(packed) > 0 {
			v, n := protowire.ConsumeVarint(packed)
			if n < 0 {
				return fmt.Errorf("failed to read packed varint: %w", protowire.ParseError(n))
			}
			add(v)
			packed = packed[n:]
		}
		return nil
	default:
		return fmt.Errorf("%w: got %d for repeated varint", ErrWireType, wireType)
	}
}

// readRepeatedFixed32 reads one unpacked fixed32 or a packed run of them.
func (p *parser) readRepeatedFixed32(wireType protowire.Type, add func(uint32)) error {
	switch wireType {
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(p.data[p.pos:])
		if n < 0 {
			return fmt.Errorf("failed to read fixed32 at offset %d: %w", p.pos, protowire.ParseError(n))
		}
		p.pos += n
		add(v)
		return nil
	case protowire.BytesType:
		packed, err := p.readBytesField(wireType)
		if err != nil {
			return err
		}
		if len(packed)%4 != 0 {
			return fmt.Errorf("packed fixed32 length %d is not a multiple of 4", len(packed))
		}
		for len(packed) > 0 {
			v, n := protowire.ConsumeFixed32(packed)
			add(v)
			packed = packed[n:]
		}
		return nil
	default:
		return fmt.Errorf("%w: got %d for repeated fixed32", ErrWireType, wireType)
	}
}

// readRepeatedFixed64 reads one unpacked fixed64 or a packed run of them.
func (p *parser) readRepeatedFixed64(wireType protowire.Type, add func(uint64)) error {
	switch wireType {
	case protowire.Fixed64Type:
		v, n := protowire.ConsumeFixed64(p.data[p.pos:])
		if n < 0 {
			return fmt.Errorf("failed to read fixed64 at offset %d: %w", p.pos, protowire.ParseError(n))
		}
		p.pos += n
		add(v)
		return nil
	case protowire.BytesType:
		packed, err := p.readBytesField(wireType)
		if err != nil {
			return err
		}
		if len(packed)%8 != 0 {
			return fmt.Errorf("packed fixed64 length %d is not a multiple of 8", len(packed))
		}
		for len(packed) > 0 {
			v, n := protowire.ConsumeFixed64(packed)
			add(v)
			packed = packed[n:]
		}
		return nil
	default:
		return fmt.Errorf("%w: got %d for repeated fixed64", ErrWireType, wireType)
	}
}

// skipField skips a field based on wire type.
func (p *parser) skipField(fieldNum protowire.Number, wireType protowire.Type) error {
	n := protowire.ConsumeFieldValue(fieldNum, wireType, p.data[p.pos:])
	if n < 0 {
		return fmt.Errorf("failed to skip field %d: %w", fieldNum, protowire.ParseError(n))
	}
	p.pos += n
	return nil
}
