package anchor

import "fmt"

// JointID names one joint of the fixed hand skeleton. The enumeration
// is closed: every hand model allocates exactly one visual entity per
// JointID, eagerly, for the lifetime of the model.
type JointID uint8

const (
	Wrist JointID = iota

	ThumbKnuckle
	ThumbIntermediateBase
	ThumbIntermediateTip
	ThumbTip

	IndexMetacarpal
	IndexKnuckle
	IndexIntermediateBase
	IndexIntermediateTip
	IndexTip

	MiddleMetacarpal
	MiddleKnuckle
	MiddleIntermediateBase
	MiddleIntermediateTip
	MiddleTip

	RingMetacarpal
	RingKnuckle
	RingIntermediateBase
	RingIntermediateTip
	RingTip

	LittleMetacarpal
	LittleKnuckle
	LittleIntermediateBase
	LittleIntermediateTip
	LittleTip

	ForearmWrist
	ForearmArm

	// JointCount is the size of the enumeration.
	JointCount
)

var jointNames = [JointCount]string{
	Wrist: "wrist",

	ThumbKnuckle:          "thumbKnuckle",
	ThumbIntermediateBase: "thumbIntermediateBase",
	ThumbIntermediateTip:  "thumbIntermediateTip",
	ThumbTip:              "thumbTip",

	IndexMetacarpal:       "indexMetacarpal",
	IndexKnuckle:          "indexKnuckle",
	IndexIntermediateBase: "indexIntermediateBase",
	IndexIntermediateTip:  "indexIntermediateTip",
	IndexTip:              "indexTip",

	MiddleMetacarpal:       "middleMetacarpal",
	MiddleKnuckle:          "middleKnuckle",
	MiddleIntermediateBase: "middleIntermediateBase",
	MiddleIntermediateTip:  "middleIntermediateTip",
	MiddleTip:              "middleTip",

	RingMetacarpal:       "ringMetacarpal",
	RingKnuckle:          "ringKnuckle",
	RingIntermediateBase: "ringIntermediateBase",
	RingIntermediateTip:  "ringIntermediateTip",
	RingTip:              "ringTip",

	LittleMetacarpal:       "littleMetacarpal",
	LittleKnuckle:          "littleKnuckle",
	LittleIntermediateBase: "littleIntermediateBase",
	LittleIntermediateTip:  "littleIntermediateTip",
	LittleTip:              "littleTip",

	ForearmWrist: "forearmWrist",
	ForearmArm:   "forearmArm",
}

// String returns the joint's skeleton name.
func (j JointID) String() string {
	if j < JointCount {
		return jointNames[j]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(j))
}

// jointParents maps each joint to the joint it articulates from.
// Wrist is the root and maps to itself.
var jointParents = [JointCount]JointID{
	Wrist: Wrist,

	ThumbKnuckle:          Wrist,
	ThumbIntermediateBase: ThumbKnuckle,
	ThumbIntermediateTip:  ThumbIntermediateBase,
	ThumbTip:              ThumbIntermediateTip,

	IndexMetacarpal:       Wrist,
	IndexKnuckle:          IndexMetacarpal,
	IndexIntermediateBase: IndexKnuckle,
	IndexIntermediateTip:  IndexIntermediateBase,
	IndexTip:              IndexIntermediateTip,

	MiddleMetacarpal:       Wrist,
	MiddleKnuckle:          MiddleMetacarpal,
	MiddleIntermediateBase: MiddleKnuckle,
	MiddleIntermediateTip:  MiddleIntermediateBase,
	MiddleTip:              MiddleIntermediateTip,

	RingMetacarpal:       Wrist,
	RingKnuckle:          RingMetacarpal,
	RingIntermediateBase: RingKnuckle,
	RingIntermediateTip:  RingIntermediateBase,
	RingTip:              RingIntermediateTip,

	LittleMetacarpal:       Wrist,
	LittleKnuckle:          LittleMetacarpal,
	LittleIntermediateBase: LittleKnuckle,
	LittleIntermediateTip:  LittleIntermediateBase,
	LittleTip:              LittleIntermediateTip,

	ForearmWrist: Wrist,
	ForearmArm:   ForearmWrist,
}

// Parent returns the joint this joint articulates from; the wrist
// returns itself.
func (j JointID) Parent() JointID {
	if j < JointCount {
		return jointParents[j]
	}
	return Wrist
}
