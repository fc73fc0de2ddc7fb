package orchestrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/askdata/internal/application/profile"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// BuildPrompt renders the model prompt: dataset shape, column types, a
// ten-row sample, numeric summary statistics, null counts, and the user's
// question, with strict instructions to answer in two tagged sections.
func BuildPrompt(t *dataset.Table, question string) string {
	rep := profile.Build(t)

	dtypes := make(map[string]string, t.NumCols())
	for _, c := range t.Columns() {
		dtypes[c.Name] = string(c.Type)
	}
	dtypesJSON, _ := json.MarshalIndent(dtypes, "", "  ")

	sampleJSON, _ := json.MarshalIndent(t.Head(10), "", "  ")
	statsJSON, _ := json.MarshalIndent(rep.NumericAnalysis, "", "  ")
	nullsJSON, _ := json.MarshalIndent(rep.DatasetOverview.MissingValues, "", "  ")

	var b strings.Builder
	b.WriteString("You are an expert data analyst. You have access to a table called 'df' with the following information:\n\n")
	fmt.Fprintf(&b, "DATASET INFORMATION:\n- Shape: %d rows, %d columns\n- Columns: %s\n- Column Types: %s\n\n",
		t.NumRows(), t.NumCols(), strings.Join(t.ColumnNames(), ", "), dtypesJSON)
	fmt.Fprintf(&b, "SAMPLE DATA (first 10 rows):\n%s\n\n", sampleJSON)
	fmt.Fprintf(&b, "SUMMARY STATISTICS (for numeric columns):\n%s\n\n", statsJSON)
	fmt.Fprintf(&b, "MISSING VALUES:\n%s\n\n", nullsJSON)
	fmt.Fprintf(&b, "USER QUESTION: %s\n\n", question)

	b.WriteString(`YOUR TASK:
Analyze the user's question and answer it with one expression over df.

RESPONSE FORMAT:
You MUST format your response EXACTLY as:
CODE: <expression>
EXPLANATION: <detailed, conversational explanation with insights>

OPERATIONS AVAILABLE:
- Basic: df['col'], df[['col1', 'col2']], len(df), df.shape
- Statistics: df['col'].mean(), .median(), .mode(), .std(), .describe()
- Filtering: df[df['col'] > value], df[df['col'] == 'value']
- Sorting: df.sort_values('col', ascending=False), df.nlargest(n, 'col'), df.nsmallest(n, 'col')
- Grouping: df.groupby('col')['col2'].sum(), df.groupby('col').size()
- Value counts: df['col'].value_counts(), df['col'].nunique()

GUIDELINES:
- Use only the operations listed above
- Return a single expression; multi-line code must assign to a variable named result
- Include context and insights in your explanation, not just the result

EXAMPLE RESPONSES:

Question: "What is the average salary?"
CODE: df['salary'].mean()
EXPLANATION: The average salary is calculated by taking the mean of the salary column. This gives a central tendency measure representing the typical salary in the dataset.

Question: "Show me salary statistics by city"
CODE: df.groupby('city')['salary'].mean()
EXPLANATION: I've computed the average salary for each city, which reveals which cities pay the most and the least.

Now analyze the user's question and provide your response:

Answer:`)
	return b.String()
}
