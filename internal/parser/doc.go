// Package parser is the graph builder: it lexes and parses the
// arithmetic source language (`return <expr>;` over integer literals
// with + - * / and parentheses) directly into the sea-of-nodes graph,
// invoking the peephole rewriter on every node immediately after
// constructing it. By the time Parse returns, all constant
// subexpressions have been folded.
package parser
