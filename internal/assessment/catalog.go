package assessment

// Stream is an immutable catalog entry ranked by the engine.
type Stream struct {
	Name              string
	RequiredSubjects  []string
	RequiredAptitudes []string
	RequiredInterests []string
	Reasoning         string
	CareerPaths       []string
	HighDemandSectors []Sector
	Abroad            *AbroadGate
}

// Sector describes a growing employment sector attached to a stream.
type Sector struct {
	Sector           string   `json:"sector"`
	Growth           string   `json:"growth"`
	Skills           []string `json:"skills"`
	CareerPaths      []string `json:"careerPaths"`
	JobOpportunities string   `json:"jobOpportunities"`
}

// AbroadOption is one study-abroad destination.
type AbroadOption struct {
	Country      string   `json:"country"`
	Universities []string `json:"universities"`
	Programs     []string `json:"programs"`
	Requirements string   `json:"requirements"`
}

// Profile is the small set of derived values abroad gates are checked against.
type Profile struct {
	AverageAcademic float64
	Openness        float64
	ResourceAccess  float64
}

// AbroadGate releases Options only when Eligible holds for the respondent.
type AbroadGate struct {
	Eligible func(Profile) bool
	Options  []AbroadOption
}

// OptionsFor returns a copy of the gated options, or nil when the gate is shut.
func (g *AbroadGate) OptionsFor(p Profile) []AbroadOption {
	if g == nil || !g.Eligible(p) {
		return nil
	}
	out := make([]AbroadOption, len(g.Options))
	for i, o := range g.Options {
		o.Universities = append([]string(nil), o.Universities...)
		o.Programs = append([]string(nil), o.Programs...)
		out[i] = o
	}
	return out
}

var (
	scienceCareers = []string{
		"Engineering (Mechanical, Civil, Electrical, Computer)",
		"Medicine (Doctor, Dentist, Pharmacist)",
		"Research Scientist",
		"Information Technology",
		"Architecture",
		"Mathematics and Statistics",
	}

	commerceCareers = []string{
		"Chartered Accountancy (CA)",
		"Company Secretary (CS)",
		"Business Administration (BBA/MBA)",
		"Finance and Banking",
		"Economics",
		"Marketing and Sales",
		"Human Resources",
	}

	artsCareers = []string{
		"Law (LLB)",
		"Journalism and Mass Communication",
		"Psychology",
		"Sociology",
		"Literature and Languages",
		"Fine Arts",
		"Teaching and Education",
		"Social Work",
	}
)

// regularStreams is ranked for the regular survey. Declaration order breaks ties.
var regularStreams = []Stream{
	{
		Name:              "Science",
		RequiredSubjects:  []string{Maths, Science},
		RequiredAptitudes: []string{Numerical, Logical, Spatial},
		RequiredInterests: []string{"I", "R"},
		Reasoning:         "Strong in analytical thinking, problem-solving, and scientific inquiry.",
		CareerPaths:       scienceCareers,
		HighDemandSectors: []Sector{
			{
				Sector:           "Artificial Intelligence & Machine Learning",
				Growth:           "35% annual growth",
				Skills:           []string{"Python", "TensorFlow", "Data Analysis"},
				CareerPaths:      []string{"AI Engineer", "Data Scientist", "ML Researcher"},
				JobOpportunities: "Tech companies, research institutions, AI startups, government agencies",
			},
			{
				Sector:           "Renewable Energy",
				Growth:           "28% annual growth",
				Skills:           []string{"Engineering", "Sustainability", "Project Management"},
				CareerPaths:      []string{"Solar Engineer", "Wind Energy Specialist", "Sustainability Consultant"},
				JobOpportunities: "Energy companies, environmental agencies, renewable energy firms, consulting firms",
			},
			{
				Sector:           "Biotechnology & Healthcare",
				Growth:           "22% annual growth",
				Skills:           []string{"Biology", "Research", "Medical Technology"},
				CareerPaths:      []string{"Biotech Researcher", "Medical Scientist", "Healthcare Analyst"},
				JobOpportunities: "Hospitals, clinics, research centers, pharmaceutical companies, biotech firms, NGOs",
			},
		},
		Abroad: &AbroadGate{
			Eligible: func(p Profile) bool { return p.AverageAcademic >= 75 && p.Openness >= 70 },
			Options: []AbroadOption{
				{
					Country:      "USA",
					Universities: []string{"MIT", "Stanford", "Caltech"},
					Programs:     []string{"Engineering", "Computer Science", "Data Science"},
					Requirements: "High GPA, GRE scores, strong letters of recommendation",
				},
				{
					Country:      "Germany",
					Universities: []string{"TU Munich", "RWTH Aachen"},
					Programs:     []string{"Engineering", "Research Programs"},
					Requirements: "German language proficiency, competitive entrance exams",
				},
				{
					Country:      "UK",
					Universities: []string{"University of London", "University of Manchester"},
					Programs:     []string{"Medical Laboratory Technology", "Biomedical Sciences"},
					Requirements: "IELTS, relevant qualifications, clinical experience",
				},
				{
					Country:      "Gulf Countries (UAE, Saudi Arabia, Qatar)",
					Universities: []string{"University of Dubai", "King Saud University", "Carnegie Mellon University in Qatar"},
					Programs:     []string{"Medical Laboratory Science", "Healthcare Management"},
					Requirements: "High academic scores, English proficiency, work visa sponsorship",
				},
				{
					Country:      "European Countries (Netherlands, Sweden)",
					Universities: []string{"University of Amsterdam", "Karolinska Institute"},
					Programs:     []string{"Biomedical Laboratory Science", "Clinical Research"},
					Requirements: "Bachelor's degree, language requirements, EU Blue Card",
				},
			},
		},
	},
	{
		Name:              "Commerce",
		RequiredSubjects:  []string{Maths, English, SocialScience},
		RequiredAptitudes: []string{Numerical, Verbal, Logical},
		RequiredInterests: []string{"C", "E"},
		Reasoning:         "Good with numbers, communication, and business-oriented thinking.",
		CareerPaths:       commerceCareers,
		HighDemandSectors: []Sector{
			{
				Sector:           "FinTech & Digital Banking",
				Growth:           "32% annual growth",
				Skills:           []string{"Blockchain", "Financial Analysis", "Digital Marketing"},
				CareerPaths:      []string{"FinTech Analyst", "Digital Banking Specialist", "Investment Banker"},
				JobOpportunities: "Banks, financial institutions, fintech startups, investment firms, consulting companies",
			},
			{
				Sector:           "E-commerce & Digital Marketing",
				Growth:           "25% annual growth",
				Skills:           []string{"Digital Marketing", "E-commerce Platforms", "Analytics"},
				CareerPaths:      []string{"E-commerce Manager", "Digital Marketing Specialist", "Business Analyst"},
				JobOpportunities: "E-commerce companies, marketing agencies, retail chains, digital media firms, startups",
			},
			{
				Sector:           "Sustainable Finance",
				Growth:           "20% annual growth",
				Skills:           []string{"ESG Investing", "Sustainable Finance", "Risk Management"},
				CareerPaths:      []string{"ESG Analyst", "Sustainable Investment Manager", "Green Finance Consultant"},
				JobOpportunities: "Investment banks, asset management firms, sustainability consulting, green finance institutions",
			},
		},
		Abroad: &AbroadGate{
			Eligible: func(p Profile) bool { return p.AverageAcademic >= 70 && p.ResourceAccess >= 60 },
			Options: []AbroadOption{
				{
					Country:      "UK",
					Universities: []string{"London School of Economics", "University of Oxford"},
					Programs:     []string{"MBA", "Finance", "Business Analytics"},
					Requirements: "GMAT scores, work experience, English proficiency",
				},
				{
					Country:      "Canada",
					Universities: []string{"University of Toronto", "McGill University"},
					Programs:     []string{"Business Administration", "International Business"},
					Requirements: "Competitive GPA, language tests, financial proof",
				},
			},
		},
	},
	{
		Name:              "Arts/Humanities",
		RequiredSubjects:  []string{English, SocialScience, Languages},
		RequiredAptitudes: []string{Verbal, Spatial, Logical},
		RequiredInterests: []string{"A", "S"},
		Reasoning:         "Creative, communicative, and interested in human behavior and society.",
		CareerPaths:       artsCareers,
		HighDemandSectors: []Sector{
			{
				Sector:           "Digital Media & Content Creation",
				Growth:           "30% annual growth",
				Skills:           []string{"Content Creation", "Social Media", "Digital Storytelling"},
				CareerPaths:      []string{"Content Creator", "Social Media Manager", "Digital Journalist"},
				JobOpportunities: "Media companies, digital agencies, content platforms, entertainment industry, marketing firms",
			},
			{
				Sector:           "Mental Health & Wellness",
				Growth:           "24% annual growth",
				Skills:           []string{"Psychology", "Counseling", "Wellness Coaching"},
				CareerPaths:      []string{"Mental Health Counselor", "Wellness Coach", "Therapist"},
				JobOpportunities: "Hospitals, clinics, wellness centers, counseling services, NGOs, educational institutions",
			},
			{
				Sector:           "Education Technology",
				Growth:           "18% annual growth",
				Skills:           []string{"Educational Technology", "Online Learning", "Curriculum Design"},
				CareerPaths:      []string{"EdTech Specialist", "Online Educator", "Learning Designer"},
				JobOpportunities: "EdTech companies, educational institutions, training organizations, content development firms",
			},
		},
		Abroad: &AbroadGate{
			Eligible: func(p Profile) bool { return p.Openness >= 75 && p.AverageAcademic >= 65 },
			Options: []AbroadOption{
				{
					Country:      "Australia",
					Universities: []string{"University of Melbourne", "University of Sydney"},
					Programs:     []string{"Media Studies", "International Relations", "Psychology"},
					Requirements: "Portfolio, English proficiency, competitive application",
				},
				{
					Country:      "Netherlands",
					Universities: []string{"University of Amsterdam", "Utrecht University"},
					Programs:     []string{"Social Sciences", "Cultural Studies"},
					Requirements: "Motivation letter, academic references",
				},
			},
		},
	},
}

// vhscStreams is ranked for the VHSC survey. It carries no sectors or abroad
// gates.
var vhscStreams = []Stream{
	{
		Name:              "Science with PCM/PCB",
		RequiredSubjects:  []string{Maths, Science},
		RequiredAptitudes: []string{Numerical, Logical, Spatial},
		RequiredInterests: []string{"I", "R"},
		Reasoning:         "Strong analytical skills, interest in science and mathematics, suitable for medical and engineering fields.",
		CareerPaths:       scienceCareers,
	},
	{
		Name:              "Science with MLT",
		RequiredSubjects:  []string{Science, English},
		RequiredAptitudes: []string{Logical, Verbal, Mechanical},
		RequiredInterests: []string{"I", "S"},
		Reasoning:         "Interest in healthcare sciences, good with practical applications and helping others.",
		CareerPaths: []string{
			"Medical Laboratory Technology",
			"Nursing",
			"Biotechnology",
			"Pharmacy",
			"Allied Health Sciences",
			"Clinical Research",
		},
	},
	{
		Name:              "Commerce",
		RequiredSubjects:  []string{Maths, English, SocialScience},
		RequiredAptitudes: []string{Numerical, Verbal, Logical},
		RequiredInterests: []string{"C", "E"},
		Reasoning:         "Strong in business-related subjects, interested in finance, management, and entrepreneurship.",
		CareerPaths:       commerceCareers,
	},
	{
		Name:              "Arts/Humanities",
		RequiredSubjects:  []string{English, SocialScience, Languages},
		RequiredAptitudes: []string{Verbal, Spatial, Logical},
		RequiredInterests: []string{"A", "S"},
		Reasoning:         "Creative and communicative, interested in literature, social sciences, and human behavior.",
		CareerPaths:       artsCareers,
	},
	{
		Name:              "Vocational/Technical",
		RequiredSubjects:  []string{Maths, Science},
		RequiredAptitudes: []string{Mechanical, Spatial, Logical},
		RequiredInterests: []string{"R", "C"},
		Reasoning:         "Practical and hands-on, interested in technical skills and vocational training.",
		CareerPaths: []string{
			"Automotive Technology",
			"Electrical Technology",
			"Construction Technology",
			"Information Technology Support",
			"Welding and Fabrication",
			"Culinary Arts",
		},
	},
}
