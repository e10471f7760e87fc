package questionbank

// Reference returns the built-in ten-question behaviour and work-ethics
// bank. Each call returns a fresh Bank.
func Reference() *Bank {
	b, err := New(referenceQuestions())
	if err != nil {
		panic("questionbank: reference bank is invalid: " + err.Error())
	}
	return b
}

func referenceQuestions() []Question {
	return []Question{
		{
			Dimension: "Integrity",
			Prompt:    "You notice a colleague is acting against company policy. What would you do?",
			Options: []Option{
				{"Ignore it", 25},
				{"Tell a teammate only", 50},
				{"Privately talk to them", 75},
				{"Report to the supervisor and document it", 100},
			},
		},
		{
			Dimension: "Teamwork",
			Prompt:    "A teammate disagrees with your approach. How do you handle it?",
			Options: []Option{
				{"Stick to my own way", 25},
				{"Avoid discussion", 50},
				{"Discuss and compromise", 75},
				{"Actively seek their input and adjust plan", 100},
			},
		},
		{
			Dimension: "Accountability",
			Prompt:    "You made a mistake that impacted the team. What would you do?",
			Options: []Option{
				{"Deny involvement", 25},
				{"Blame circumstances", 50},
				{"Acknowledge but don't fix it", 75},
				{"Acknowledge, apologize, and fix it", 100},
			},
		},
		{
			Dimension: "Proactiveness",
			Prompt:    "You identify an opportunity to improve a process outside your role. What do you do?",
			Options: []Option{
				{"Ignore it", 25},
				{"Mention it casually", 50},
				{"Propose improvement to team", 75},
				{"Research, propose, and take lead", 100},
			},
		},
		{
			Dimension: "Adaptability",
			Prompt:    "A project scope changes suddenly. How do you react?",
			Options: []Option{
				{"Complain about the change", 25},
				{"Resist but adjust slowly", 50},
				{"Adjust and manage priorities", 75},
				{"Quickly adapt and help others adapt", 100},
			},
		},
		{
			Dimension: "Punctuality",
			Prompt:    "You are running late for work. You will:",
			Options: []Option{
				{"Not inform anyone", 25},
				{"Send a quick text to a colleague", 50},
				{"Call your supervisor and explain", 75},
				{"Inform in advance and make up lost time", 100},
			},
		},
		{
			Dimension: "Responsibility",
			Prompt:    "A client reports an error you made. You will:",
			Options: []Option{
				{"Ignore and hope it goes unnoticed", 25},
				{"Blame technical issues", 50},
				{"Admit the mistake but don’t fix it", 75},
				{"Take full responsibility and correct it immediately", 100},
			},
		},
		{
			Dimension: "Confidentiality",
			Prompt:    "You accidentally receive confidential company data. You will:",
			Options: []Option{
				{"Share it with colleagues", 25},
				{"Keep it but don’t tell anyone", 50},
				{"Report it to IT or HR", 75},
				{"Delete securely and inform relevant authority", 100},
			},
		},
		{
			Dimension: "Work Ethic",
			Prompt:    "You have finished your tasks early. You will:",
			Options: []Option{
				{"Relax until the day ends", 25},
				{"Browse social media", 25},
				{"Ask for more tasks", 75},
				{"Help others or improve work processes", 100},
			},
		},
		{
			Dimension: "Initiative",
			Prompt:    "You spot an inefficient process in the workplace. You will:",
			Options: []Option{
				{"Ignore it", 25},
				{"Complain to others", 50},
				{"Mention it to your supervisor", 75},
				{"Propose and help implement a better solution", 100},
			},
		},
	}
}
