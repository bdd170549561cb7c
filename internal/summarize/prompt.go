package summarize

// summaryPrompt is the structured-output contract with the model: fill this
// exact section skeleton, never free-form. %s slots are title, url, content.
const summaryPrompt = `
Summarize the following content:

Title: %s
URL: %s

CONTENT:
%s

You should always create summaries capturing the below template as a markdown file (with accurate markdown formatting and structure), It is important to follow the template exactly without leaving any section empty:

## What did the author accomplish ?

 -  What

 -  Why

## What are the key elements of the approach ?

 -  How
    - How the approach is implemented
    - Embed one important image / diagram / code snippet from the content showing the approach (embed it in size suitable for email newsletter)

## What can you use yourself?
- important tools and resources from the content ( model links , dataset links , github links etc)
- recipies / methodologies discussed in the content
- hyperparameters / best practices discussed in the content
- other useful aspects that can be integrated into further research.

## Training compute:
- If the content discusses training compute - training hours , GPU used etc.

## References to further follow / read ?
- important references and links from the content
`
