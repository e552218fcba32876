package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ==================== Memory ====================

// MemoryStore keeps the word in memory. It starts uninitialized.
type MemoryStore struct {
	word   uint32
	set    bool
	Writes int
	// Err, when set, is returned by every read and write.
	Err error
}

// NewMemoryStore returns a store already holding w.
func NewMemoryStore(w uint32) *MemoryStore {
	return &MemoryStore{word: w, set: true}
}

// ReadRaw implements Storage.
func (m *MemoryStore) ReadRaw() (uint32, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if !m.set {
		return 0, ErrUninitialized
	}
	return m.word, nil
}

// WriteRaw implements Storage.
func (m *MemoryStore) WriteRaw(w uint32) error {
	if m.Err != nil {
		return m.Err
	}
	m.word, m.set = w, true
	m.Writes++
	return nil
}

// ==================== YAML ====================

const yamlMagic = "odin75-eeprom"

type yamlFile struct {
	Magic  string     `yaml:"magic"`
	Raw    uint32     `yaml:"raw"`
	Fields yamlFields `yaml:"fields"`
}

// yamlFields is written for readers of the file and ignored on load.
type yamlFields struct {
	Scene      uint8  `yaml:"scene"`
	Brightness uint16 `yaml:"brightness"`
	ShowInfo   bool   `yaml:"show_info"`
	DelayBase  uint16 `yaml:"delay_base"`
	DelayCtrl  uint16 `yaml:"delay_ctrl"`
	DelayBksp  uint16 `yaml:"delay_bksp"`
}

// YAMLStore emulates the EEPROM with a YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore returns a store backed by the file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the backing file.
func (y *YAMLStore) Path() string {
	return y.path
}

// ReadRaw implements Storage.
func (y *YAMLStore) ReadRaw() (uint32, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrUninitialized
		}
		return 0, fmt.Errorf("read eeprom file: %w", err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("%w: parse eeprom yaml: %v", ErrCorrupt, err)
	}
	if f.Magic != yamlMagic {
		return 0, fmt.Errorf("%w: bad magic %q", ErrCorrupt, f.Magic)
	}
	return f.Raw, nil
}

// WriteRaw implements Storage.
func (y *YAMLStore) WriteRaw(w uint32) error {
	if err := os.MkdirAll(filepath.Dir(y.path), 0o755); err != nil {
		return fmt.Errorf("create eeprom directory: %w", err)
	}

	v := Unpack(w)
	data, err := yaml.Marshal(yamlFile{
		Magic: yamlMagic,
		Raw:   w,
		Fields: yamlFields{
			Scene:      v.Scene,
			Brightness: v.Brightness,
			ShowInfo:   v.ShowInfo,
			DelayBase:  v.DelayBase,
			DelayCtrl:  v.DelayCtrl,
			DelayBksp:  v.DelayBksp,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal eeprom yaml: %w", err)
	}
	if err := os.WriteFile(y.path, data, 0o644); err != nil {
		return fmt.Errorf("write eeprom file: %w", err)
	}
	return nil
}

// ==================== Block device ====================

// blockMagic marks an initialised record.
const blockMagic uint32 = 0x4F373501

// BlockSize is the size of the record a BlockStore reads and writes.
const BlockSize = 8

// BlockDevice is random access storage such as on-chip flash.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt
}

// Eraser is implemented by devices that must be erased before writing.
type Eraser interface {
	EraseBlockSize() int64
	EraseBlocks(start, length int64) error
}

// BlockStore keeps the word in an eight byte record: a magic number
// followed by the word, both little endian.
type BlockStore struct {
	dev    BlockDevice
	offset int64
}

// NewBlockStore returns a store using the record at offset on dev.
func NewBlockStore(dev BlockDevice, offset int64) *BlockStore {
	return &BlockStore{dev: dev, offset: offset}
}

// ReadRaw implements Storage.
func (b *BlockStore) ReadRaw() (uint32, error) {
	var rec [BlockSize]byte
	if _, err := b.dev.ReadAt(rec[:], b.offset); err != nil {
		return 0, fmt.Errorf("read settings block: %w", err)
	}

	magic := binary.LittleEndian.Uint32(rec[:4])
	switch magic {
	case blockMagic:
		return binary.LittleEndian.Uint32(rec[4:]), nil
	case 0x00000000, 0xFFFFFFFF:
		return 0, ErrUninitialized
	default:
		return 0, fmt.Errorf("%w: bad magic 0x%08X", ErrCorrupt, magic)
	}
}

// WriteRaw implements Storage.
func (b *BlockStore) WriteRaw(w uint32) error {
	if e, ok := b.dev.(Eraser); ok {
		size := e.EraseBlockSize()
		if size > 0 {
			if err := e.EraseBlocks(b.offset/size, 1); err != nil {
				return fmt.Errorf("erase settings block: %w", err)
			}
		}
	}

	var rec [BlockSize]byte
	binary.LittleEndian.PutUint32(rec[:4], blockMagic)
	binary.LittleEndian.PutUint32(rec[4:], w)
	if _, err := b.dev.WriteAt(rec[:], b.offset); err != nil {
		return fmt.Errorf("write settings block: %w", err)
	}
	return nil
}
