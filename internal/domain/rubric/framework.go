// Package rubric holds the fixed observation framework: domains, competencies,
// indicators, the rating scale and the score classification thresholds.
package rubric

import "github.com/okian/architect/internal/domain/model"

// competency builds an unrated template competency.
func competency(id, title string, indicators ...string) model.Competency {
	return model.Competency{ID: id, Title: title, Indicators: indicators}
}

// template is never handed out directly; Framework returns deep copies.
var template = []model.Domain{ //nolint:gochecknoglobals // immutable framework data
	{
		ID:   "D1",
		Name: "Professional Preparation",
		Competencies: []model.Competency{
			competency("C1.1", "Lesson Planning", "Clear objectives", "Logical sequence", "Appropriate resources"),
			competency("C1.2", "Resourcefulness", "Use of varied materials", "Improvisation", "Technology integration"),
			competency("C1.3", "Time Management", "Pacing", "Transitions", "Adherence to schedule"),
		},
	},
	{
		ID:   "D2",
		Name: "Subject Knowledge",
		Competencies: []model.Competency{
			competency("C2.1", "Content Mastery", "Accurate information", "Depth of knowledge", "Answers questions effectively"),
			competency("C2.2", "Clarity of Explanation", "Simple language", "Use of examples", "Checks for understanding"),
			competency("C2.3", "Curriculum Alignment", "Covers syllabus", "Meets standards", "Builds on prior knowledge"),
			competency("C2.4", "Connects Concepts", "Real-world links", "Cross-curricular connections", `Explains "why"`),
		},
	},
	{
		ID:   "D3",
		Name: "Classroom Management",
		Competencies: []model.Competency{
			competency("C3.1", "Positive Discipline", "Clear expectations", "Consistent routines", "Respectful correction"),
			competency("C3.2", "Physical Environment", "Safe and clean", "Organized layout", "Displays of student work"),
			competency("C3.3", "Learner Behavior", "Proactive monitoring", "Handles disruptions well", "Encourages self-regulation"),
			competency("C3.4", "Material Management", "Efficient distribution", "Orderly collection", "Learners respect materials"),
		},
	},
	{
		ID:   "D4",
		Name: "Learner Engagement",
		Competencies: []model.Competency{
			competency("C4.1", "Active Participation", "High on-task behavior", "Learners ask questions", "Group collaboration"),
			competency("C4.2", "Questioning Technique", "Higher-order questions", "Wait time", "All learners involved"),
			competency("C4.3", "Differentiated Instruction", "Addresses varied abilities", "Provides choice", "Individual support"),
			competency("C4.4", "Enthusiasm & Rapport", "Positive tone", "Shows interest in learners", "Creates excitement"),
		},
	},
	{
		ID:   "D5",
		Name: "Assessment & Feedback",
		Competencies: []model.Competency{
			competency("C5.1", "Variety of Assessments", "Formative/Summative", "Observations", "Quizzes/Projects"),
			competency("C5.2", "Checking for Understanding", "Frequent checks", "Adjusts teaching based on checks", "Uses various methods"),
			competency("C5.3", "Quality of Feedback", "Timely", "Specific", "Constructive and actionable"),
			competency("C5.4", "Record Keeping", "Systematic", "Up-to-date", "Used to inform planning"),
		},
	},
	{
		ID:   "D6",
		Name: "Learner Standards",
		Competencies: []model.Competency{
			competency("C6.1", "Quality of Work", "Neatness", "Completeness", "Shows effort and pride"),
			competency("C6.2", "Critical Thinking", "Problem-solving", "Analysis", "Creativity"),
			competency("C6.3", "Communication Skills", "Learners articulate ideas", "Listen to others", "Use appropriate vocabulary"),
			competency("C6.4", "Independence", "Learners work without constant help", "Take initiative", "Manage their own tasks"),
		},
	},
	{
		ID:   "D7",
		Name: "Learning Outcomes",
		Competencies: []model.Competency{
			competency("C7.1", "Achievement of Objectives", "Most learners meet goals", "Evidence of learning", "Can apply new knowledge"),
			competency("C7.2", "Progress Over Time", "Shows improvement from start of lesson", "Builds on past skills", "Can demonstrate growth"),
			competency("C7.3", "Confidence & Attitude", "Positive about learning", "Willing to try", "Resilient to mistakes"),
			competency("C7.4", "Mastery for All", "High expectations for all", "Struggling learners supported", "Advanced learners challenged"),
		},
	},
	{
		ID:   "D8",
		Name: "Relationships & Climate",
		Competencies: []model.Competency{
			competency("C8.1", "Teacher-Learner Rapport", "Mutual respect", "Fairness", "Approachable"),
			competency("C8.2", "Learner-Learner Interaction", "Collaboration", "Respect for peers", "Positive social skills"),
			competency("C8.3", "Inclusive Environment", "Values diversity", "All learners feel they belong", "No discrimination"),
			competency("C8.4", "Emotional Safety", "Learners feel safe to take risks", "Mistakes are learning tools", "Positive atmosphere"),
		},
	},
	{
		ID:   "D9",
		Name: "Contextual Relevance",
		Competencies: []model.Competency{
			competency("C9.1", "Local Context", "Uses local examples", "Relates to learners' lives", "Culturally sensitive"),
			competency("C9.2", "Parent Communication", "Regular updates", "Positive relationships", "Involves parents in learning"),
			competency("C9.3", "Community Engagement", "Connects learning to community", "Invites community members", "Aware of local issues"),
		},
	},
	{
		ID:   "D10",
		Name: "Professional Conduct",
		Competencies: []model.Competency{
			competency("C10.1", "Professionalism", "Punctuality", "Appropriate dress", "Positive attitude"),
			competency("C10.2", "Collaboration with Colleagues", "Shares ideas", "Supportive of others", "Contributes to school goals"),
			competency("C10.3", "Professional Development", "Seeks feedback", "Engages in learning", "Implements new strategies"),
		},
	},
}

// Framework returns a fresh, unrated copy of the observation framework.
// Callers own the result and may mutate it freely.
func Framework() []model.Domain {
	return model.CloneDomains(template)
}

// DomainCount is the number of framework domains.
func DomainCount() int { return len(template) }

// CompetencyCount is the number of competencies across all framework domains.
func CompetencyCount() int {
	n := 0
	for _, d := range template {
		n += len(d.Competencies)
	}
	return n
}
