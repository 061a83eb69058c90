package scoring

import (
	"github.com/samber/lo"

	"github.com/scolarite/affect/core/model"
)

// Target is an assignment destination: an individual teacher or a jury
// standing in for its members.
type Target interface {
	TargetID() string
	Kind() model.TargetKind
	// Subjects returns the subject coverage of the target.
	Subjects() []string
	// Location returns the geocoded point, or nil when unknown.
	Location() *model.GeoPoint
	// Members returns the supervisor IDs the target stands for. Pairing
	// constraints (must/must-not-be-with) are checked against these.
	Members() []string
	// AdvisedClasses returns the classes the target's supervisors advise.
	AdvisedClasses() []string
	Tags() []string
}

// TeacherTarget adapts a teacher to the Target interface.
type TeacherTarget struct {
	Teacher model.Teacher
}

func (t TeacherTarget) TargetID() string          { return t.Teacher.ID }
func (t TeacherTarget) Kind() model.TargetKind    { return model.TargetTeacher }
func (t TeacherTarget) Subjects() []string        { return []string{t.Teacher.Subject} }
func (t TeacherTarget) Location() *model.GeoPoint { return t.Teacher.Home }
func (t TeacherTarget) Members() []string         { return []string{t.Teacher.ID} }
func (t TeacherTarget) Tags() []string            { return t.Teacher.Tags }

func (t TeacherTarget) AdvisedClasses() []string {
	if t.Teacher.IsClassAdvisor && t.Teacher.AdvisedClass != "" {
		return []string{t.Teacher.AdvisedClass}
	}
	return nil
}

// JuryTarget adapts a jury to the Target interface. Its subject
// coverage is the union of the members' subjects.
type JuryTarget struct {
	Jury    model.Jury
	members []model.Teacher
}

// NewJuryTarget builds a jury target from the jury record and its
// resolved member teachers.
func NewJuryTarget(j model.Jury, members []model.Teacher) JuryTarget {
	return JuryTarget{Jury: j, members: members}
}

func (t JuryTarget) TargetID() string       { return t.Jury.ID }
func (t JuryTarget) Kind() model.TargetKind { return model.TargetJury }

func (t JuryTarget) Subjects() []string {
	return lo.Uniq(lo.Map(t.members, func(m model.Teacher, _ int) string { return m.Subject }))
}

// Location returns the first geocoded member home, if any. Juries sit
// at the school in practice, so distance rarely applies to them.
func (t JuryTarget) Location() *model.GeoPoint {
	for _, m := range t.members {
		if m.Home != nil {
			return m.Home
		}
	}
	return nil
}

func (t JuryTarget) Members() []string { return t.Jury.MemberIDs }

func (t JuryTarget) AdvisedClasses() []string {
	return lo.FlatMap(t.members, func(m model.Teacher, _ int) []string {
		if m.IsClassAdvisor && m.AdvisedClass != "" {
			return []string{m.AdvisedClass}
		}
		return nil
	})
}

func (t JuryTarget) Tags() []string {
	return lo.Uniq(lo.FlatMap(t.members, func(m model.Teacher, _ int) []string { return m.Tags }))
}
