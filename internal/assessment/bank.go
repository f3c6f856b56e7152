package assessment

// Question is one entry of a question bank. Index position within the bank is
// the link between an answer key and its category.
type Question struct {
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct,omitempty"`
	Category string   `json:"category"`
}

// HasOption reports whether answer is one of the question's listed options.
func (q Question) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// Aptitude categories.
const (
	Numerical  = "numerical"
	Verbal     = "verbal"
	Spatial    = "spatial"
	Mechanical = "mechanical"
	Logical    = "logical"
)

// Academic subjects.
const (
	Maths         = "maths"
	Science       = "science"
	English       = "english"
	SocialScience = "socialScience"
	Languages     = "languages"
)

// Big Five traits.
const (
	Openness          = "openness"
	Conscientiousness = "conscientiousness"
	Extraversion      = "extraversion"
	Agreeableness     = "agreeableness"
	Neuroticism       = "neuroticism"
)

// Contextual factors.
const (
	CareerAwareness = "careerAwareness"
	ResourceAccess  = "resourceAccess"
	ParentalSupport = "parentalSupport"
)

// Category orderings. Composite means and report tables follow these.
var (
	AptitudeCategories = []string{Numerical, Verbal, Spatial, Mechanical, Logical}
	RIASECLetters      = []string{"R", "I", "A", "S", "E", "C"}
	Subjects           = []string{Maths, Science, English, SocialScience, Languages}
	Traits             = []string{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}
	ContextFactors     = []string{CareerAwareness, ResourceAccess, ParentalSupport}
)

// aptitudeBank holds five questions per category, in category order. Index i
// belongs to AptitudeCategories[i/5].
var aptitudeBank = []Question{
	{Text: "What is 15% of 200?", Options: []string{"20", "25", "30", "35"}, Correct: "30", Category: Numerical},
	{Text: "If 3 apples cost $1.50, how much do 9 apples cost?", Options: []string{"$3.00", "$4.50", "$5.00", "$6.00"}, Correct: "$4.50", Category: Numerical},
	{Text: "What is the next number in the sequence: 2, 4, 8, 16, ...?", Options: []string{"24", "32", "28", "20"}, Correct: "32", Category: Numerical},
	{Text: "A train travels 120 km in 2 hours. What is its speed?", Options: []string{"50 km/h", "60 km/h", "70 km/h", "80 km/h"}, Correct: "60 km/h", Category: Numerical},
	{Text: "If x + 5 = 12, what is x?", Options: []string{"5", "6", "7", "8"}, Correct: "7", Category: Numerical},

	{Text: "Choose the word that is most similar to 'Happy':", Options: []string{"Sad", "Joyful", "Angry", "Tired"}, Correct: "Joyful", Category: Verbal},
	{Text: "Complete the analogy: Book is to Library as Painting is to:", Options: []string{"Museum", "School", "Hospital", "Market"}, Correct: "Museum", Category: Verbal},
	{Text: "Which word does NOT belong: Apple, Banana, Carrot, Orange?", Options: []string{"Apple", "Banana", "Carrot", "Orange"}, Correct: "Carrot", Category: Verbal},
	{Text: "What is the opposite of 'Brave'?", Options: []string{"Cowardly", "Strong", "Smart", "Fast"}, Correct: "Cowardly", Category: Verbal},
	{Text: "Choose the correct spelling:", Options: []string{"Recieve", "Receive", "Receeve", "Recive"}, Correct: "Receive", Category: Verbal},

	{Text: "Which shape can be folded into a cube?", Options: []string{"Net A", "Net B", "Net C", "Net D"}, Correct: "Net A", Category: Spatial},
	{Text: "If you rotate a square 90 degrees clockwise, what happens?", Options: []string{"It becomes a circle", "It stays the same", "It becomes a triangle", "It disappears"}, Correct: "It stays the same", Category: Spatial},
	{Text: "Which of these is a 3D shape?", Options: []string{"Square", "Cube", "Line", "Point"}, Correct: "Cube", Category: Spatial},
	{Text: "How many faces does a tetrahedron have?", Options: []string{"3", "4", "5", "6"}, Correct: "4", Category: Spatial},
	{Text: "Which pattern completes the sequence?", Options: []string{"Pattern A", "Pattern B", "Pattern C", "Pattern D"}, Correct: "Pattern B", Category: Spatial},

	{Text: "What happens when you pull a spring?", Options: []string{"It gets shorter", "It gets longer", "It breaks", "It stays the same"}, Correct: "It gets longer", Category: Mechanical},
	{Text: "Which tool is used to measure length?", Options: []string{"Thermometer", "Ruler", "Scale", "Compass"}, Correct: "Ruler", Category: Mechanical},
	{Text: "What principle explains why boats float?", Options: []string{"Gravity", "Buoyancy", "Magnetism", "Electricity"}, Correct: "Buoyancy", Category: Mechanical},
	{Text: "How does a lever work?", Options: []string{"By pushing", "By multiplying force", "By heating", "By cooling"}, Correct: "By multiplying force", Category: Mechanical},
	{Text: "What is needed to create electricity in a circuit?", Options: []string{"Water", "Battery", "Paper", "Wood"}, Correct: "Battery", Category: Mechanical},

	{Text: "If all roses are flowers, and some flowers are red, are all roses red?", Options: []string{"Yes", "No", "Maybe", "Sometimes"}, Correct: "No", Category: Logical},
	{Text: "Complete the pattern: 1, 3, 6, 10, 15, ...", Options: []string{"20", "21", "22", "25"}, Correct: "21", Category: Logical},
	{Text: "Which conclusion follows: All scientists are curious. John is curious. Therefore:", Options: []string{"John is a scientist", "John might be a scientist", "John is not a scientist", "No conclusion"}, Correct: "No conclusion", Category: Logical},
	{Text: "If A > B and B > C, then:", Options: []string{"A > C", "A < C", "A = C", "Cannot determine"}, Correct: "A > C", Category: Logical},
	{Text: "Which number is missing: 2, 5, 10, 17, 26, ?", Options: []string{"35", "37", "39", "41"}, Correct: "37", Category: Logical},
}

var academicBands = []string{"0-40%", "41-60%", "61-80%", "81-100%"}

var academicBank = []Question{
	{Text: "What is your average percentage in Mathematics (Grade 10)?", Options: academicBands, Category: Maths},
	{Text: "What is your average percentage in Science (Grade 10)?", Options: academicBands, Category: Science},
	{Text: "What is your average percentage in English (Grade 10)?", Options: academicBands, Category: English},
	{Text: "What is your average percentage in Social Science (Grade 10)?", Options: academicBands, Category: SocialScience},
	{Text: "What is your average percentage in Languages (Grade 10)?", Options: academicBands, Category: Languages},
}

// academicBandScores converts a percentage band to a representative score.
var academicBandScores = map[string]float64{
	"81-100%": 90,
	"61-80%":  70,
	"41-60%":  50,
	"0-40%":   20,
}

var contextBank = []Question{
	{Text: "How aware are you of different career options and pathways?", Options: []string{"Not aware at all", "Somewhat aware", "Moderately aware", "Very aware"}, Category: CareerAwareness},
	{Text: "How much access do you have to educational resources (books, internet, coaching)?", Options: []string{"Limited access", "Moderate access", "Good access", "Excellent access"}, Category: ResourceAccess},
	{Text: "How supportive are your parents regarding your career choices?", Options: []string{"Not supportive", "Somewhat supportive", "Moderately supportive", "Very supportive"}, Category: ParentalSupport},
}

type letterAssignment struct {
	index  int
	letter string
}

// riasecAssignments lists the interest table in authoring order. Several
// indices are assigned twice; the later assignment is the one that counts.
var riasecAssignments = []letterAssignment{
	{0, "R"}, {6, "R"}, {8, "R"}, {20, "R"}, {21, "R"}, {23, "R"}, {29, "R"}, {33, "R"}, {36, "R"}, {38, "R"},
	{1, "I"}, {10, "I"}, {17, "I"}, {19, "I"}, {22, "I"}, {25, "I"}, {27, "I"}, {34, "I"}, {40, "I"},
	{7, "A"}, {16, "A"}, {24, "A"}, {26, "A"}, {29, "A"}, {32, "A"}, {42, "A"},
	{3, "S"}, {11, "S"}, {12, "S"}, {14, "S"}, {19, "S"}, {37, "S"}, {41, "S"},
	{9, "E"}, {18, "E"}, {28, "E"}, {30, "E"}, {35, "E"}, {37, "E"}, {43, "E"},
	{5, "C"}, {8, "C"}, {16, "C"}, {24, "C"}, {26, "C"}, {36, "C"},
}

func buildLetterTable(assignments []letterAssignment) map[int]string {
	table := make(map[int]string, len(assignments))
	for _, a := range assignments {
		table[a.index] = a.letter
	}
	return table
}

type traitAssignment struct {
	answer string
	trait  string
}

// personalityAssignments maps literal option text to a Big Five trait.
var personalityAssignments = []traitAssignment{
	{"Values and wisdom", Openness},
	{"Integrity and perfection", Conscientiousness},
	{"Work hard play hard", Conscientiousness},
	{"Stability and balance", Agreeableness},
	{"I am comfortable dealing with conflict and helping people find middle ground. My role is the mediator.", Agreeableness},
	{"I make sure everything and everyone is taken care of. My role is the protector.", Agreeableness},
	{"I help my family understand work ethic, hustle, and the value of having resources. My role is material support.", Conscientiousness},
	{"I focus on nurturing and wanting a healthy and content family.", Agreeableness},
	{"Honest and smart", Openness},
	{"Strong presence and power", Extraversion},
	{"Fun and dynamic", Extraversion},
	{"Reliable and respectful", Conscientiousness},
	{"Documentaries, biographies, human observation", Openness},
	{"Entertainment, politics, current affairs", Extraversion},
	{"Comedy, sport, drama, motivational stories", Extraversion},
	{"Soap operas, reality TV, family, gossip, daytime shows", Neuroticism},
	{"Calm, composed, balanced", Agreeableness},
	{"Irritated, frustrated, angry", Neuroticism},
	{"Moody, loud, restless", Neuroticism},
	{"Lazy, depressed, worried", Neuroticism},
}

var personalityDictionary = buildTraitTable(personalityAssignments)

func buildTraitTable(assignments []traitAssignment) map[string]string {
	table := make(map[string]string, len(assignments))
	for _, a := range assignments {
		table[a.answer] = a.trait
	}
	return table
}

// contextKeywordRules are checked in order; the first rule with a matching
// keyword decides the score.
var contextKeywordRules = []struct {
	keywords []string
	score    float64
}{
	{[]string{"Very", "Excellent"}, 90},
	{[]string{"Moderately", "Good"}, 70},
	{[]string{"Somewhat"}, 50},
}

const contextFallbackScore = 30

// AptitudeBank returns a copy of the aptitude question bank.
func AptitudeBank() []Question { return cloneQuestions(aptitudeBank) }

// AcademicBank returns a copy of the academic question bank.
func AcademicBank() []Question { return cloneQuestions(academicBank) }

// ContextBank returns a copy of the context question bank.
func ContextBank() []Question { return cloneQuestions(contextBank) }

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
