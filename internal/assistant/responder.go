// Package assistant implements the keyword driven research chatbot.
package assistant

import "strings"

const Greeting = "Hello! I'm your quantum-enhanced molecular docking assistant. How can I help you with your research today?"

const fallbackReply = "That's an interesting question! I specialize in quantum-enhanced molecular docking and virtual screening. Could you provide more details about what you'd like to know? I can help with technical explanations, methodology guidance, or troubleshooting your research pipeline."

type rule struct {
	keywords []string
	reply    string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{
		keywords: []string{"docking"},
		reply:    "Molecular docking is a computational method that predicts the preferred orientation of one molecule to another when bound to form a stable complex. Our quantum-enhanced approach can improve accuracy by 20-30%. Would you like me to explain the specific algorithms we use?",
	},
	{
		keywords: []string{"quantum"},
		reply:    "Our quantum computing module uses variational quantum eigensolvers (VQE) and quantum approximate optimization algorithms (QAOA) to enhance molecular simulations. This allows us to explore larger conformational spaces more efficiently than classical methods.",
	},
	{
		keywords: []string{"screening"},
		reply:    "Virtual screening allows you to computationally evaluate large libraries of compounds. Our platform supports databases like ZINC, ChEMBL, and PubChem. The quantum enhancement can process up to 100x more compounds in the same time frame.",
	},
	{
		keywords: []string{"help", "how"},
		reply:    "I can help you with:\n• Understanding molecular docking protocols\n• Explaining quantum computing applications\n• Guiding you through virtual screening\n• Interpreting results and reports\n• Troubleshooting pipeline issues\n\nWhat specific area would you like to explore?",
	},
	{
		keywords: []string{"dataset"},
		reply:    "Our dataset explorer contains over 10 million molecular structures from various databases. You can filter by molecular weight, LogP, activity, and binding affinity. Would you like guidance on how to navigate the dataset explorer?",
	},
}

// QuickQuestions are the suggested prompts offered under the input box.
var QuickQuestions = []string{
	"How does quantum docking work?",
	"Explain virtual screening process",
	"What datasets are available?",
	"How to interpret binding affinity?",
	"Troubleshoot failed jobs",
}

// Reply picks the canned answer for input.
func Reply(input string) string {
	lower := strings.ToLower(input)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply
			}
		}
	}
	return fallbackReply
}
