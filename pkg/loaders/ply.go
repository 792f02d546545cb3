package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("loaders")

// ErrMalformedPLY is returned for PLY input that cannot be parsed
var ErrMalformedPLY = errors.New("loaders: malformed PLY")

// maxPreallocate bounds the slice capacity reserved from header counts
const maxPreallocate = 1 << 16

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement

	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasNormals    bool
	HasColors     bool
	NormalIndices [3]int // Indices of nx, ny, nz properties
	ColorIndices  [3]int // Indices of red, green, blue properties

	normalMask, colorMask uint8 // Declared components, one bit each
}

// PLYElement is an element declaration in header order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the data loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons fan-triangulated
	Normals  []core.Vec3 // Per-vertex normals (nx, ny, nz), empty if not present
	Colors   []core.Vec3 // Per-vertex colors normalized to [0,1], empty if not present
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("Loaded PLY data: %d vertices, %d triangles in %v",
		len(data.Vertices), len(data.Faces)/3, time.Since(startTime))
	return data, nil
}

// ParsePLY reads PLY data in ASCII or binary (either byte order) format
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		scanner.Split(bufio.ScanWords)
		values = &asciiReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedPLY, header.Format)
	}

	// Header counts are untrusted; append grows past the initial capacity
	vertexCap := min(header.VertexCount, maxPreallocate)
	data := &PLYData{
		Vertices: make([]core.Vec3, 0, vertexCap),
		Faces:    make([]int, 0, min(header.FaceCount, maxPreallocate)*3),
	}
	if header.HasNormals {
		data.Normals = make([]core.Vec3, 0, vertexCap)
	}
	if header.HasColors {
		data.Colors = make([]core.Vec3, 0, vertexCap)
	}

	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, header, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("%w: face index %d out of range for %d vertices", ErrMalformedPLY, idx, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader parses the header up to and including end_header,
// leaving reader positioned at the first data byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformedPLY)
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrMalformedPLY)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line %q", ErrMalformedPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line %q", ErrMalformedPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrMalformedPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			switch parts[1] {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrMalformedPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
			switch current.Name {
			case "vertex":
				header.VertexProps = current.Props
				recordVertexProperty(header, prop.Name, len(current.Props)-1)
			case "face":
				header.FaceProps = current.Props
			}
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("%w: missing format line", ErrMalformedPLY)
	}
	if header.normalMask != 0 && header.normalMask != 0b111 {
		return nil, fmt.Errorf("%w: vertex normals need nx, ny and nz", ErrMalformedPLY)
	}
	if header.colorMask != 0 && header.colorMask != 0b111 {
		return nil, fmt.Errorf("%w: vertex colors need red, green and blue", ErrMalformedPLY)
	}
	header.HasNormals = header.normalMask == 0b111
	header.HasColors = header.colorMask == 0b111
	return header, nil
}

func recordVertexProperty(header *PLYHeader, name string, index int) {
	switch name {
	case "nx", "ny", "nz":
		axis := int(name[1] - 'x')
		header.NormalIndices[axis] = index
		header.normalMask |= 1 << axis
	case "red", "r":
		header.ColorIndices[0] = index
		header.colorMask |= 1
	case "green", "g":
		header.ColorIndices[1] = index
		header.colorMask |= 2
	case "blue", "b":
		header.ColorIndices[2] = index
		header.colorMask |= 4
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrMalformedPLY)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrMalformedPLY)
		}
		prop := PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown type in list property %s", ErrMalformedPLY, prop.Name)
		}
		return prop, nil
	}

	prop := PLYProperty{Type: parts[0], Name: parts[1]}
	if getTypeSize(prop.Type) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unknown type %q for property %s", ErrMalformedPLY, prop.Type, prop.Name)
	}
	return prop, nil
}

func readVertices(values valueReader, header *PLYHeader, data *PLYData) error {
	props := header.VertexProps
	scalars := make([]float64, len(props))
	x, y, z := propIndex(props, "x"), propIndex(props, "y"), propIndex(props, "z")
	if x < 0 || y < 0 || z < 0 {
		return fmt.Errorf("%w: vertex element lacks x, y or z", ErrMalformedPLY)
	}

	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range props {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
				}
				continue
			}
			v, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			scalars[j] = v
		}

		data.Vertices = append(data.Vertices, core.NewVec3(scalars[x], scalars[y], scalars[z]))

		if header.HasNormals {
			n := header.NormalIndices
			data.Normals = append(data.Normals, core.NewVec3(scalars[n[0]], scalars[n[1]], scalars[n[2]]))
		}
		if header.HasColors {
			c := header.ColorIndices
			color := core.NewVec3(scalars[c[0]], scalars[c[1]], scalars[c[2]])
			if isIntegerType(props[c[0]].Type) {
				// Convert from 0-255 to 0-1 range
				color = color.Divide(255)
			}
			data.Colors = append(data.Colors, color)
		}
	}
	return nil
}

func readFaces(values valueReader, element PLYElement, data *PLYData) error {
	indices := make([]int, 0, 4)

	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			isIndexList := prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			if !isIndexList {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 {
				return fmt.Errorf("%w: face %d has %v vertices", ErrMalformedPLY, i, count)
			}

			indices = indices[:0]
			for k := 0; k < int(count); k++ {
				idx, err := values.read(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d index %d: %w", i, k, err)
				}
				indices = append(indices, int(idx))
			}

			// Fan-triangulate polygons around their first vertex
			for k := 1; k+1 < len(indices); k++ {
				data.Faces = append(data.Faces, indices[0], indices[k], indices[k+1])
			}
		}
	}
	return nil
}

func skipElement(values valueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if err := skipProperty(values, prop); err != nil {
				return fmt.Errorf("element %s %d property %s: %w", element.Name, i, prop.Name, err)
			}
		}
	}
	return nil
}

func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values valueReader, prop PLYProperty) error {
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

func propIndex(props []PLYProperty, name string) int {
	for i, prop := range props {
		if prop.Name == name && !prop.IsList {
			return i
		}
	}
	return -1
}

// getTypeSize returns the size in bytes of a PLY scalar type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

func isIntegerType(dataType string) bool {
	switch dataType {
	case "float", "float32", "double", "float64":
		return false
	default:
		return true
	}
}

// valueReader decodes one scalar of a PLY type from the data section
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func (r *asciiReader) read(dataType string) (float64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: unexpected end of data", ErrMalformedPLY)
	}
	v, err := strconv.ParseFloat(r.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", ErrMalformedPLY, dataType, r.scanner.Text())
	}
	return v, nil
}

type binaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *binaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("%w: unknown type %q", ErrMalformedPLY, dataType)
	}
	b := r.buf[:size]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPLY, err)
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	default:
		return math.Float64frombits(r.order.Uint64(b)), nil
	}
}
