package config

// Built-in vocabulary used when the YAML file leaves a list empty.

// DefaultCategoryTerms maps query terms to canonical catalog category labels.
func DefaultCategoryTerms() map[string]string {
	return map[string]string{
		"library":       "Library",
		"libraries":     "Library",
		"books":         "Library",
		"fitness":       "Fitness",
		"gym":           "Fitness",
		"recreation":    "Fitness",
		"sports":        "Fitness",
		"dining":        "Dining",
		"food":          "Dining",
		"meal":          "Dining",
		"meals":         "Dining",
		"cafeteria":     "Dining",
		"housing":       "Housing",
		"dorm":          "Housing",
		"dorms":         "Housing",
		"residence":     "Housing",
		"health":        "Health",
		"medical":       "Health",
		"clinic":        "Health",
		"counseling":    "Counseling",
		"mental":        "Counseling",
		"career":        "Career",
		"careers":       "Career",
		"jobs":          "Career",
		"internship":    "Career",
		"internships":   "Career",
		"tutoring":      "Tutoring",
		"tutor":         "Tutoring",
		"advising":      "Advising",
		"advisor":       "Advising",
		"parking":       "Transportation",
		"shuttle":       "Transportation",
		"bus":           "Transportation",
		"scholarship":   "Financial Aid",
		"scholarships":  "Financial Aid",
		"tuition":       "Financial Aid",
		"financial":     "Financial Aid",
		"wifi":          "IT Services",
		"computer":      "IT Services",
		"computers":     "IT Services",
		"clubs":         "Student Life",
		"organizations": "Student Life",
	}
}

// DefaultKeyTerms are tracked in addition to the category term keys.
func DefaultKeyTerms() []string {
	return []string{
		"study", "exam", "hours", "open", "printing", "registration", "events",
		"lab", "research", "workshop", "courses", "center", "services", "office",
		"support", "room", "rooms", "pool", "courts", "programs", "classes",
	}
}

// DefaultGreetings are greeting and closing phrases.
func DefaultGreetings() []string {
	return []string{
		"hi", "hello", "hey", "thanks", "thank you", "good morning",
		"good afternoon", "good evening", "bye", "goodbye", "greetings",
	}
}

// DefaultResourcePhrases indicate a resource-seeking question.
func DefaultResourcePhrases() []string {
	return []string{
		"where can i find", "where is", "where are", "available on campus", "on campus",
		"available", "resource", "resources", "library", "fitness", "gym", "dining",
		"housing", "counseling", "health center", "career", "tutoring", "advising",
		"parking", "shuttle", "financial aid", "scholarship", "office hours", "services",
	}
}

// DefaultEducationalPhrases indicate a knowledge question.
func DefaultEducationalPhrases() []string {
	return []string{
		"what is", "what are", "how does", "how do", "why", "explain", "define",
		"study tips", "help me understand", "tips for",
	}
}
