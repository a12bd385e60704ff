package service

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/orexam/orexam-backend/internal/model"
)

// questionTemplates holds the pool of generation templates per topic.
// Placeholders of the form {name} are substituted with randomized values
// so repeated generation yields distinct exercises.
var questionTemplates = map[model.QuestionTopic][]string{
	model.TopicMonteCarlo: {
		"A manufacturing company wants to estimate the probability of defective products using Monte Carlo simulation. Given a defect rate of {rate}%, simulate {samples} samples and calculate the expected number of defective items out of {total} products.",
		"Use Monte Carlo simulation to estimate the value of π by generating {samples} random points in a unit square. Explain the methodology and calculate the approximation.",
		"A project has uncertain completion times following a normal distribution with mean {mean} days and standard deviation {std} days. Use Monte Carlo simulation with {samples} iterations to estimate the probability of completing within {target} days.",
		"Simulate a stock price movement using Monte Carlo method with initial price ${price}, annual return {return}%, volatility {volatility}%, over {time_periods} periods. Calculate the expected final price range.",
	},
	model.TopicMarkovChain: {
		"A weather system has three states: Sunny, Rainy, Cloudy. The transition matrix is given. If today is sunny, what is the probability of rain in {days} days?",
		"A customer loyalty program has states: New, Regular, Premium, Churned. Given the transition probabilities, calculate the steady-state distribution and interpret the results.",
		"Model a machine's operational states (Working, Maintenance, Broken) as a Markov chain. Given transition probabilities, find the long-run proportion of time in each state.",
		"A brand switching study shows transition probabilities between brands A, B, and C. Calculate the market share equilibrium and time to reach steady state.",
	},
	model.TopicDynamicProgramming: {
		"A company has {stages} production stages with costs and capacities. Use dynamic programming to find the optimal production allocation that minimizes total cost while meeting demand of {demand} units.",
		"Solve the knapsack problem with {items} items having weights and values. The knapsack capacity is {capacity}. Find the optimal selection using dynamic programming.",
		"A shortest path problem in a network with {nodes} nodes and given edge weights. Use dynamic programming to find the minimum cost path from source to destination.",
		"An inventory management problem with {time_periods} periods, holding costs, ordering costs, and demand. Use dynamic programming to determine optimal ordering policy.",
	},
	model.TopicProjectNetworkAnalysis: {
		"A project network has {activities} activities with given durations and dependencies. Calculate the critical path, total project duration, and slack times for each activity.",
		"Perform PERT analysis on a project with optimistic, most likely, and pessimistic time estimates. Calculate expected project duration and probability of completion within {target} days.",
		"A project network requires resource leveling. Given resource constraints and activity durations, determine the optimal schedule to minimize project duration.",
		"Crash analysis for a project network: Given normal and crash durations with associated costs, determine the minimum cost schedule to complete the project in {target} days.",
	},
	model.TopicGameTheory: {
		"Two companies compete in pricing strategies. Company A has strategies {strategies_a} and Company B has strategies {strategies_b}. Given the payoff matrix, find the Nash equilibrium.",
		"A zero-sum game between two players with given payoff matrix. Determine the optimal mixed strategies for both players and the value of the game.",
		"Analyze a prisoner's dilemma scenario with specific payoffs. Determine the Nash equilibrium and discuss the efficiency of the outcome.",
		"A sealed-bid auction with {bidders} bidders having private valuations. Analyze the optimal bidding strategies under first-price and second-price auction formats.",
	},
}

// randomPlaceholderValues draws a full set of placeholder values. Ranges
// mirror realistic exercise parameters per topic.
func randomPlaceholderValues() map[string]string {
	intBetween := func(lo, hi int) string {
		return fmt.Sprintf("%d", lo+rand.Intn(hi-lo+1))
	}
	return map[string]string{
		"rate":         intBetween(1, 20),
		"samples":      intBetween(1000, 10000),
		"total":        intBetween(100, 1000),
		"mean":         intBetween(10, 40),
		"std":          intBetween(2, 7),
		"target":       intBetween(20, 40),
		"price":        intBetween(50, 100),
		"return":       intBetween(5, 20),
		"volatility":   intBetween(10, 30),
		"time_periods": intBetween(1, 12),
		"days":         intBetween(1, 7),
		"stages":       intBetween(3, 7),
		"demand":       intBetween(100, 600),
		"items":        intBetween(5, 20),
		"capacity":     intBetween(50, 150),
		"nodes":        intBetween(4, 12),
		"activities":   intBetween(8, 20),
		"strategies_a": "[A1, A2, A3]",
		"strategies_b": "[B1, B2, B3]",
		"bidders":      intBetween(3, 8),
	}
}

// renderTemplate picks a random template for the topic and substitutes
// every placeholder.
func renderTemplate(topic model.QuestionTopic) string {
	templates := questionTemplates[topic]
	template := templates[rand.Intn(len(templates))]

	values := randomPlaceholderValues()
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
