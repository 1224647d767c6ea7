// Package config is the reference ConfigurationReader implementation,
// loading scheduling parameters from a YAML file with environment
// overrides, in the style of noah-isme-sma-adp-api/pkg/config: a typed
// Config struct populated via spf13/viper, with joho/godotenv picking up a
// local .env for development overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

// rawClassRef mirrors domain.ClassRef for YAML decoding.
type rawClassRef struct {
	Grade       int `mapstructure:"grade" yaml:"grade"`
	ClassNumber int `mapstructure:"class_number" yaml:"class_number"`
}

func (r rawClassRef) toDomain() domain.ClassRef {
	return domain.NewClassRef(r.Grade, r.ClassNumber)
}

type rawExchangePair struct {
	Exchange rawClassRef `mapstructure:"exchange" yaml:"exchange"`
	Parent   rawClassRef `mapstructure:"parent" yaml:"parent"`
}

type rawMeeting struct {
	Day      string   `mapstructure:"day" yaml:"day"`
	Period   int      `mapstructure:"period" yaml:"period"`
	Name     string   `mapstructure:"name" yaml:"name"`
	Teachers []string `mapstructure:"teachers" yaml:"teachers"`
}

type rawFile struct {
	Weekdays                      []string          `mapstructure:"weekdays" yaml:"weekdays"`
	Grade5Classes                 []rawClassRef      `mapstructure:"grade5_classes" yaml:"grade5_classes"`
	ExchangeClassPairs            []rawExchangePair  `mapstructure:"exchange_class_pairs" yaml:"exchange_class_pairs"`
	RestrictedExchangeClasses     []rawClassRef      `mapstructure:"restricted_exchange_classes" yaml:"restricted_exchange_classes"`
	FixedSubjects                 []string           `mapstructure:"fixed_subjects" yaml:"fixed_subjects"`
	JiritsuSubjects                []string          `mapstructure:"jiritsu_subjects" yaml:"jiritsu_subjects"`
	MainSubjects                  []string           `mapstructure:"main_subjects" yaml:"main_subjects"`
	SkillSubjects                 []string           `mapstructure:"skill_subjects" yaml:"skill_subjects"`
	MainSubjectsPreferredPeriods  []int              `mapstructure:"main_subjects_preferred_periods" yaml:"main_subjects_preferred_periods"`
	SkillSubjectsPreferredPeriods []int              `mapstructure:"skill_subjects_preferred_periods" yaml:"skill_subjects_preferred_periods"`
	PEPreferredDay                string             `mapstructure:"pe_preferred_day" yaml:"pe_preferred_day"`
	ParentSubjectsForJiritsu      []string           `mapstructure:"parent_subjects_for_jiritsu" yaml:"parent_subjects_for_jiritsu"`
	ExcludedSyncSubjects          []string           `mapstructure:"excluded_sync_subjects" yaml:"excluded_sync_subjects"`
	Temperature                   float64            `mapstructure:"temperature" yaml:"temperature"`
	JointPEGroups                 [][]rawClassRef    `mapstructure:"joint_pe_groups" yaml:"joint_pe_groups"`
	MeetingInfo                   []rawMeeting       `mapstructure:"meeting_info" yaml:"meeting_info"`
}

var weekdayByName = map[string]domain.Weekday{
	"Mon": domain.Monday, "Tue": domain.Tuesday, "Wed": domain.Wednesday,
	"Thu": domain.Thursday, "Fri": domain.Friday,
}

func parseWeekday(name string) (domain.Weekday, error) {
	w, ok := weekdayByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return w, nil
}

// Reader is the default ports.ConfigurationReader, backed by a parsed file.
type Reader struct {
	grade5         []domain.ClassRef
	pairs          []ports.ExchangePair
	restricted     []domain.ClassRef
	fixedSubjects  map[domain.Subject]struct{}
	jiritsuSubject map[domain.Subject]struct{}
	meetingInfo    map[domain.TimeSlot]ports.MeetingInfo
	params         ports.Parameters
}

// Load reads configuration from path (YAML), applying defaults for any
// field left unset, with environment-variable overrides loaded from a
// local .env file if present.
func Load(path string) (*Reader, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigFileNotFound(err, &notFound) {
			return nil, domerrors.Wrap(err, domerrors.CodeConfiguration, "failed to read configuration file")
		}
	}

	var raw rawFile
	if err := v.Unmarshal(&raw); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeConfiguration, "failed to decode configuration")
	}

	return fromRaw(raw)
}

func asConfigFileNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

func fromRaw(raw rawFile) (*Reader, error) {
	r := &Reader{
		fixedSubjects:  toSubjectSet(raw.FixedSubjects),
		jiritsuSubject: toSubjectSet(raw.JiritsuSubjects),
		meetingInfo:    make(map[domain.TimeSlot]ports.MeetingInfo),
	}

	for _, c := range raw.Grade5Classes {
		r.grade5 = append(r.grade5, c.toDomain())
	}
	for _, p := range raw.ExchangeClassPairs {
		r.pairs = append(r.pairs, ports.ExchangePair{Exchange: p.Exchange.toDomain(), Parent: p.Parent.toDomain()})
	}
	for _, c := range raw.RestrictedExchangeClasses {
		r.restricted = append(r.restricted, c.toDomain())
	}

	peDay := domain.Tuesday
	if raw.PEPreferredDay != "" {
		d, err := parseWeekday(raw.PEPreferredDay)
		if err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeConfiguration, "invalid pe_preferred_day")
		}
		peDay = d
	}

	parentSubjects := toSubjectSet(raw.ParentSubjectsForJiritsu)
	if len(parentSubjects) == 0 {
		parentSubjects = ports.DefaultParentSubjectsForJiritsu()
	}

	excluded := toSubjectSet(raw.ExcludedSyncSubjects)
	if len(excluded) == 0 {
		excluded = map[domain.Subject]struct{}{domain.PE: {}}
	}

	var jointGroups [][]domain.ClassRef
	for _, group := range raw.JointPEGroups {
		var classes []domain.ClassRef
		for _, c := range group {
			classes = append(classes, c.toDomain())
		}
		jointGroups = append(jointGroups, classes)
	}

	r.params = ports.Parameters{
		MainSubjects:                  toSubjectSet(raw.MainSubjects),
		SkillSubjects:                 toSubjectSet(raw.SkillSubjects),
		MainSubjectsPreferredPeriods:  raw.MainSubjectsPreferredPeriods,
		SkillSubjectsPreferredPeriods: raw.SkillSubjectsPreferredPeriods,
		PEPreferredDay:                peDay,
		ParentSubjectsForJiritsu:      parentSubjects,
		ExcludedSyncSubjects:          excluded,
		Temperature:                   raw.Temperature,
		JointPEGroups:                 jointGroups,
	}

	for _, m := range raw.MeetingInfo {
		day, err := parseWeekday(m.Day)
		if err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeConfiguration, "invalid meeting day")
		}
		slot := domain.NewTimeSlot(day, m.Period)
		teachers := make([]domain.Teacher, 0, len(m.Teachers))
		for _, t := range m.Teachers {
			teachers = append(teachers, domain.Teacher(t))
		}
		r.meetingInfo[slot] = ports.MeetingInfo{Name: m.Name, Teachers: teachers}
	}

	return r, nil
}

func toSubjectSet(names []string) map[domain.Subject]struct{} {
	if len(names) == 0 {
		return map[domain.Subject]struct{}{}
	}
	out := make(map[domain.Subject]struct{}, len(names))
	for _, n := range names {
		out[domain.Subject(n)] = struct{}{}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("weekdays", []string{"Mon", "Tue", "Wed", "Thu", "Fri"})
	v.SetDefault("fixed_subjects", []string{"欠", "YT", "道", "学", "総", "学総", "行", "テスト", "技家"})
	v.SetDefault("jiritsu_subjects", []string{"自立", "日生", "生単", "作業"})
	v.SetDefault("main_subjects", []string{"国", "数", "英", "理", "社"})
	v.SetDefault("skill_subjects", []string{"音", "美", "技", "家"})
	v.SetDefault("main_subjects_preferred_periods", []int{1, 2, 3})
	v.SetDefault("skill_subjects_preferred_periods", []int{4, 5, 6})
	v.SetDefault("pe_preferred_day", "Tue")
	v.SetDefault("parent_subjects_for_jiritsu", []string{"数", "英"})
	v.SetDefault("excluded_sync_subjects", []string{"保"})
	v.SetDefault("temperature", 10.0)
	v.SetDefault("grade5_classes", []map[string]int{
		{"grade": 1, "class_number": 5},
		{"grade": 2, "class_number": 5},
		{"grade": 3, "class_number": 5},
	})
}

func (r *Reader) Grade5Classes() []domain.ClassRef { return r.grade5 }

func (r *Reader) ExchangeClassPairs() []ports.ExchangePair { return r.pairs }

func (r *Reader) FixedSubjects() map[domain.Subject]struct{} { return r.fixedSubjects }

func (r *Reader) JiritsuSubjects() map[domain.Subject]struct{} { return r.jiritsuSubject }

func (r *Reader) MeetingInfo() map[domain.TimeSlot]ports.MeetingInfo { return r.meetingInfo }

func (r *Reader) RestrictedExchangeClasses() []domain.ClassRef { return r.restricted }

func (r *Reader) Parameters() ports.Parameters { return r.params }
