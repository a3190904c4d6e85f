package rubric

import "github.com/okian/architect/internal/domain/model"

// GrowthArea is a discussion area of a professional-growth meeting.
type GrowthArea struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	GuidingQuestions []string `json:"guidingQuestions"`
}

// MeetingAreas returns the four professional-growth discussion areas.
func MeetingAreas() []GrowthArea {
	return []GrowthArea{
		{
			ID:   "A1",
			Name: "Goal Setting & Reflection",
			GuidingQuestions: []string{
				"What has been your biggest success since our last meeting?",
				"What has been the most significant challenge you've faced?",
				"How are you progressing towards your professional goals for this term?",
				"What is one new thing you would like to try in your classroom before we next meet?",
			},
		},
		{
			ID:   "A2",
			Name: "Instructional Practice & Pedagogy",
			GuidingQuestions: []string{
				"Which part of your lesson delivery do you feel most confident about right now?",
				"Is there a specific instructional strategy or technique you'd like to discuss or get feedback on?",
				"How are you differentiating instruction to meet the needs of all learners in your class?",
				"What assessment data have you collected recently, and what is it telling you about student learning?",
			},
		},
		{
			ID:   "A3",
			Name: "Professional Collaboration & School Culture",
			GuidingQuestions: []string{
				"How have you collaborated with colleagues recently? What was the outcome?",
				"What contribution are you most proud of making to our school community this term?",
				"What is one thing we could do to improve professional collaboration among staff?",
				"How do you feel you are contributing to a positive school culture?",
			},
		},
		{
			ID:   "A4",
			Name: "Well-being & Professional Development",
			GuidingQuestions: []string{
				"On a scale of 1-10, how is your work-life balance right now?",
				"What support do you need from leadership to be more effective and fulfilled in your role?",
				"What professional learning opportunities would be most beneficial for you at this stage?",
				"Is there anything outside of your direct teaching responsibilities that you'd like to discuss?",
			},
		},
	}
}

// BlankMeetingAreas returns one empty-notes area per growth area, ready for a new meeting.
func BlankMeetingAreas() []model.MeetingArea {
	areas := MeetingAreas()
	out := make([]model.MeetingArea, len(areas))
	for i, a := range areas {
		out[i] = model.MeetingArea{ID: a.ID, Name: a.Name}
	}
	return out
}
