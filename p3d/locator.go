package p3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/shar-tools/p3d_browser/utils"
)

type ElementType uint32

const (
	ELEMENT_EVENT ElementType = iota
	ELEMENT_SCRIPT
	ELEMENT_GENERIC
	ELEMENT_CAR_START
	ELEMENT_SPLINE
	ELEMENT_DYNAMIC_ZONE
	ELEMENT_OCCLUSION
	ELEMENT_INTERIOR_ENTRANCE
	ELEMENT_DIRECTIONAL
	ELEMENT_ACTION
	ELEMENT_FOV
	ELEMENT_BREAKABLE_CAMERA
	ELEMENT_STATIC_CAMERA
	ELEMENT_PED_GROUP
	ELEMENT_COIN
	ELEMENT_SPAWN_POINT
)

var elementTypeNames = [...]string{
	"Event", "Script", "Generic", "CarStart", "Spline", "DynamicZone",
	"Occlusion", "InteriorEntrance", "Directional", "Action", "FOV",
	"BreakableCamera", "StaticCamera", "PedGroup", "Coin", "SpawnPoint",
}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint32(t))
}

// ElementBlock is the locator data block, interpreted by element type.
type ElementBlock interface {
	isElementBlock()
}

// DynamicZone names the zone file a load trigger pulls in.
type DynamicZone struct {
	Zone string `json:"zone" yaml:"zone"`
}

// SkippedElements stands for a block that is skipped without decoding.
type SkippedElements struct {
	Size int `json:"size" yaml:"size"`
}

func (*DynamicZone) isElementBlock() {}
func (*SkippedElements) isElementBlock() {}

type TriggerType uint32

const (
	TRIGGER_SPHERE TriggerType = iota
	TRIGGER_RECTANGLE
)

type Trigger struct {
	Name   string      `json:"name" yaml:"name"`
	TypeOf TriggerType `json:"typeOf" yaml:"typeOf"`
	Scale  mgl32.Vec3  `json:"scale" yaml:"scale"`
	Matrix mgl32.Mat4  `json:"matrix" yaml:"matrix"`
}

func (t *Trigger) IsSphere() bool {
	return t.TypeOf == TRIGGER_SPHERE
}

func (t *Trigger) Translation() mgl32.Vec3 {
	return t.Matrix.Col(3).Vec3()
}

// Yaw is the trigger rotation around the up axis, in radians.
func (t *Trigger) Yaw() float32 {
	return utils.YawFromMatrix(t.Matrix)
}

// Locator is a named anchor with a typed data block and attached triggers.
type Locator struct {
	Name        string       `json:"name" yaml:"name"`
	ElementType ElementType  `json:"elementType" yaml:"elementType"`
	Elements    ElementBlock `json:"elements" yaml:"elements"`
	Position    mgl32.Vec3   `json:"position" yaml:"position"`
	Triggers    []Trigger    `json:"triggers" yaml:"triggers"`
}

func (*Locator) Tag() uint32 { return TAG_LOCATOR }
func (*Locator) Kind() string { return KIND_LOCATOR }
func (*Locator) isVariant() {}

// minimal encoded trigger: header, empty name, type, scale, matrix
const minTriggerSize = HEADER_SIZE + 1 + 4 + 12 + 64

func (d *decoder) decodeLocator(bs *utils.BufStack) (*Locator, error) {
	var err error
	l := &Locator{}

	if l.Name, err = d.readString(bs); err != nil {
		return nil, err
	}
	elementType, err := bs.ReadLU32()
	if err != nil {
		return nil, err
	}
	l.ElementType = ElementType(elementType)
	count, err := bs.ReadLU32()
	if err != nil {
		return nil, err
	}
	if l.Elements, err = d.decodeElements(bs, l.ElementType, count); err != nil {
		return nil, err
	}
	if l.Position, err = readVec3(bs); err != nil {
		return nil, err
	}

	triggersCount, err := bs.ReadLU32()
	if err != nil {
		return nil, err
	}
	l.Triggers = make([]Trigger, 0, capHint(triggersCount, bs.Remaining(), minTriggerSize))
	for i := uint32(0); i < triggersCount; i++ {
		t, err := d.decodeTrigger(bs)
		if err != nil {
			return nil, err
		}
		l.Triggers = append(l.Triggers, t)
	}

	return l, nil
}

// decodeElements consumes exactly count*4 bytes.
func (d *decoder) decodeElements(bs *utils.BufStack, t ElementType, count uint32) (ElementBlock, error) {
	size := int64(count) * 4
	if size > int64(bs.Remaining()) {
		return nil, newDecodeError(ErrTruncatedInput, bs.AbsolutePos(), TAG_LOCATOR,
			"element block of 0x%x bytes, have 0x%x", size, bs.Remaining())
	}
	raw, err := bs.Read(int(size))
	if err != nil {
		return nil, err
	}

	switch t {
	case ELEMENT_DYNAMIC_ZONE:
		return &DynamicZone{Zone: utils.BytesToString(d.enc, raw)}, nil
	default:
		return &SkippedElements{Size: len(raw)}, nil
	}
}

func (d *decoder) decodeTrigger(bs *utils.BufStack) (t Trigger, err error) {
	offset := bs.AbsolutePos()
	h, err := ReadHeader(bs)
	if err != nil {
		return t, err
	}
	if h.Tag != TAG_TRIGGER {
		return t, newDecodeError(ErrMagicMismatch, offset, TAG_LOCATOR,
			"trigger header tag is 0x%.8x, want 0x%.8x", h.Tag, TAG_TRIGGER)
	}

	if t.Name, err = d.readString(bs); err != nil {
		return
	}
	typeOf, err := bs.ReadLU32()
	if err != nil {
		return
	}
	t.TypeOf = TriggerType(typeOf)
	if t.Scale, err = readVec3(bs); err != nil {
		return
	}
	t.Matrix, err = readMat4(bs)
	return
}
