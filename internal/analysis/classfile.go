package analysis

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const classFileMagic = 0xCAFEBABE

// Constant pool tags, JVMS table 4.4-B.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldRef           = 9
	tagMethodRef          = 10
	tagInterfaceMethodRef = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// ClassFile is the structural subset of a parsed class file that the
// analysis needs: the class's own identity, its direct super-types and the
// classes referenced from its constant pool. Names are internal JVM names
// ("java/util/List").
type ClassFile struct {
	// Name is the class's own internal name.
	Name string

	// SuperName is the direct superclass, empty for java/lang/Object.
	SuperName string

	// Interfaces are the directly declared interfaces.
	Interfaces []string

	// Major is the class-file major version.
	Major int

	// classRefs holds every CONSTANT_Class entry of the pool, possibly
	// as array descriptors.
	classRefs []string
}

// SuperTypes returns the direct superclass and interfaces, unfiltered.
func (cf *ClassFile) SuperTypes() []string {
	types := make([]string, 0, len(cf.Interfaces)+1)
	if cf.SuperName != "" {
		types = append(types, cf.SuperName)
	}

	return append(types, cf.Interfaces...)
}

// Dependencies returns the internal names of all classes referenced from the
// constant pool. Array descriptors are unwrapped to their element type;
// primitive arrays contribute nothing.
func (cf *ClassFile) Dependencies() []string {
	deps := make([]string, 0, len(cf.classRefs))
	for _, ref := range cf.classRefs {
		if name, ok := elementClassName(ref); ok {
			deps = append(deps, name)
		}
	}

	return deps
}

// elementClassName resolves a CONSTANT_Class name to a plain class name.
// Class entries name either a class directly or an array type via its
// descriptor ("[[Ljava/util/List;", "[I").
func elementClassName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "[") {
		return ref, true
	}

	ref = strings.TrimLeft(ref, "[")
	if strings.HasPrefix(ref, "L") && strings.HasSuffix(ref, ";") {
		return ref[1 : len(ref)-1], true
	}

	// Primitive array
	return "", false
}

// ParseClassFile reads the structural metadata of a single class file. Only
// the header, constant pool and the this/super/interfaces section are
// decoded; fields, methods and attributes are never touched.
func ParseClassFile(data []byte) (*ClassFile, error) {
	r := &byteReader{data: data}

	if magic := r.u4(); r.err == nil && magic != classFileMagic {
		return nil, fmt.Errorf("not a class file: magic 0x%08X", magic)
	}

	r.skip(2) // minor version
	major := r.u2()

	poolCount := r.u2()
	utf8s := make(map[int]string)
	classNameIndexes := make(map[int]int)

	for i := 1; i < poolCount && r.err == nil; i++ {
		tag := r.u1()
		switch tag {
		case tagUtf8:
			length := r.u2()
			utf8s[i] = string(r.bytes(length))
		case tagClass:
			classNameIndexes[i] = r.u2()
		case tagString, tagMethodType, tagModule, tagPackage:
			r.skip(2)
		case tagMethodHandle:
			r.skip(3)
		case tagInteger, tagFloat, tagFieldRef, tagMethodRef, tagInterfaceMethodRef, tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.skip(4)
		case tagLong, tagDouble:
			// 8-byte constants take two pool slots, JVMS 4.4.5.
			r.skip(8)
			i++
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}

	r.skip(2) // access flags
	thisClass := r.u2()
	superClass := r.u2()

	interfaceCount := r.u2()
	interfaceIndexes := make([]int, 0, interfaceCount)
	for i := 0; i < interfaceCount; i++ {
		interfaceIndexes = append(interfaceIndexes, r.u2())
	}

	if r.err != nil {
		return nil, r.err
	}

	className := func(poolIndex int) (string, error) {
		nameIndex, ok := classNameIndexes[poolIndex]
		if !ok {
			return "", fmt.Errorf("constant pool index %d is not a class entry", poolIndex)
		}

		name, ok := utf8s[nameIndex]
		if !ok {
			return "", fmt.Errorf("class entry %d references missing utf8 entry %d", poolIndex, nameIndex)
		}

		return name, nil
	}

	cf := &ClassFile{Major: major}

	var err error
	if cf.Name, err = className(thisClass); err != nil {
		return nil, err
	}

	// superClass is 0 only for java/lang/Object
	if superClass != 0 {
		if cf.SuperName, err = className(superClass); err != nil {
			return nil, err
		}
	}

	for _, index := range interfaceIndexes {
		name, err := className(index)
		if err != nil {
			return nil, err
		}

		cf.Interfaces = append(cf.Interfaces, name)
	}

	for _, nameIndex := range classNameIndexes {
		if name, ok := utf8s[nameIndex]; ok {
			cf.classRefs = append(cf.classRefs, name)
		}
	}

	return cf, nil
}

// byteReader is a bounds-checked big-endian cursor. The first failure
// sticks; callers check err once after a run of reads.
type byteReader struct {
	data []byte
	pos  int
	err  error
}

func (r *byteReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}

	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("truncated class file: need %d bytes at offset %d", n, r.pos)
		return nil
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b
}

func (r *byteReader) skip(n int) {
	r.bytes(n)
}

func (r *byteReader) u1() int {
	b := r.bytes(1)
	if b == nil {
		return 0
	}

	return int(b[0])
}

func (r *byteReader) u2() int {
	b := r.bytes(2)
	if b == nil {
		return 0
	}

	return int(binary.BigEndian.Uint16(b))
}

func (r *byteReader) u4() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint32(b)
}
