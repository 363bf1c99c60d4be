// Package wire implements functions for marshaling and unmarshaling Kafka
// requests and responses. API calls are defined as structs and walked with
// reflection: all multi-byte integers are big-endian, strings are int16
// length prefixed UTF-8, arrays and byte blobs are int32 length prefixed.
// Struct fields can be skipped with the `wire:"omit"` tag; unexported fields
// are always skipped.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
)

var ord = binary.BigEndian

// Marshal v (a pointer to an api struct) into w.
func Marshal(w io.Writer, v interface{}) error {
	return write(w, reflect.ValueOf(v))
}

// Unmarshal bytes from r into v (a pointer to an api struct). Null strings
// (negative length) read as "", null byte blobs read as nil.
func Unmarshal(r io.Reader, v interface{}) error {
	return read(r, reflect.ValueOf(v))
}

func skip(f reflect.StructField) bool {
	if f.PkgPath != "" { // unexported
		return true
	}
	return f.Tag.Get("wire") == "omit"
}

func write(w io.Writer, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		return write(w, val.Elem())
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			if skip(val.Type().Field(i)) {
				continue
			}
			if err := write(w, val.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 { // []byte
			if val.IsNil() {
				return binary.Write(w, ord, int32(-1))
			}
			if err := binary.Write(w, ord, int32(val.Len())); err != nil {
				return err
			}
			_, err := w.Write(val.Bytes())
			return err
		}
		if err := binary.Write(w, ord, int32(val.Len())); err != nil {
			return err
		}
		for i := 0; i < val.Len(); i++ {
			if err := write(w, val.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.String:
		if err := binary.Write(w, ord, int16(val.Len())); err != nil {
			return err
		}
		_, err := io.WriteString(w, val.String())
		return err
	case reflect.Int8:
		return binary.Write(w, ord, int8(val.Int()))
	case reflect.Int16:
		return binary.Write(w, ord, int16(val.Int()))
	case reflect.Int32:
		return binary.Write(w, ord, int32(val.Int()))
	case reflect.Int64:
		return binary.Write(w, ord, val.Int())
	case reflect.Uint32:
		return binary.Write(w, ord, uint32(val.Uint()))
	case reflect.Bool:
		b := []byte{0}
		if val.Bool() {
			b[0] = 1
		}
		_, err := w.Write(b)
		return err
	}
	return fmt.Errorf("marshal: unsupported kind %v", val.Kind())
}

func read(r io.Reader, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		return read(r, val.Elem())
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			if skip(val.Type().Field(i)) {
				continue
			}
			if err := read(r, val.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice:
		var n int32
		if err := binary.Read(r, ord, &n); err != nil {
			return fmt.Errorf("error reading array length: %w", err)
		}
		if val.Type().Elem().Kind() == reflect.Uint8 { // []byte
			// -1 means null; it and 0 both yield a nil slice
			if n <= 0 {
				return nil
			}
			b := make([]byte, n)
			if _, err := io.ReadFull(r, b); err != nil {
				return fmt.Errorf("error reading []byte body: %w", err)
			}
			val.SetBytes(b)
			return nil
		}
		if n <= 0 {
			return nil
		}
		val.Set(reflect.MakeSlice(val.Type(), 0, int(n)))
		for i := 0; i < int(n); i++ {
			element := reflect.New(val.Type().Elem()).Elem()
			if err := read(r, element); err != nil {
				return fmt.Errorf("error parsing array element: %w", err)
			}
			val.Set(reflect.Append(val, element))
		}
		return nil
	case reflect.String:
		var n int16
		if err := binary.Read(r, ord, &n); err != nil {
			return fmt.Errorf("error reading string length: %w", err)
		}
		// negative (null) and zero length both read as ""
		if n <= 0 {
			return nil
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return fmt.Errorf("error reading string body: %w", err)
		}
		val.SetString(string(b))
		return nil
	case reflect.Int8:
		var i int8
		if err := binary.Read(r, ord, &i); err != nil {
			return fmt.Errorf("error reading int8: %w", err)
		}
		val.SetInt(int64(i))
		return nil
	case reflect.Int16:
		var i int16
		if err := binary.Read(r, ord, &i); err != nil {
			return fmt.Errorf("error reading int16: %w", err)
		}
		val.SetInt(int64(i))
		return nil
	case reflect.Int32:
		var i int32
		if err := binary.Read(r, ord, &i); err != nil {
			return fmt.Errorf("error reading int32: %w", err)
		}
		val.SetInt(int64(i))
		return nil
	case reflect.Int64:
		var i int64
		if err := binary.Read(r, ord, &i); err != nil {
			return fmt.Errorf("error reading int64: %w", err)
		}
		val.SetInt(i)
		return nil
	case reflect.Uint32:
		var i uint32
		if err := binary.Read(r, ord, &i); err != nil {
			return fmt.Errorf("error reading uint32: %w", err)
		}
		val.SetUint(uint64(i))
		return nil
	case reflect.Bool:
		b := []byte{0}
		if _, err := io.ReadFull(r, b); err != nil {
			return fmt.Errorf("error reading bool: %w", err)
		}
		val.SetBool(b[0] != 0)
		return nil
	}
	return fmt.Errorf("unmarshal: unsupported kind %v", val.Kind())
}
