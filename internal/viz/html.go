package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "dag", "force", or "grid"
	// Message replaces the graph when there is nothing to draw.
	Message string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Layout: "dag"}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"dag", "force", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(graph.Title, opts.Message)
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     graph.Title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "dag", "force", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be dag, force, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
	Message   string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "force":
		return "cose"
	case "grid":
		return "grid"
	default:
		return "breadthfirst"
	}
}

// generateEmptyHTML returns HTML for a graph with nothing to draw.
func generateEmptyHTML(title, message string) (string, error) {
	if message == "" {
		message = "No file relationships to draw."
	}
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, templateData{Title: title, Message: message}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} file graph</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>{{.Title}}</h2>
    <p>{{.Message}}</p>
  </div>
</body>
</html>`))

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} file graph</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'shape': 'data(shape)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'center',
              'text-wrap': 'wrap',
              'width': 'label',
              'height': '24px',
              'padding': '6px',
              'border-width': 1,
              'border-color': '#999'
            }
          },
          {
            selector: 'node[type="file"]',
            style: { 'background-color': '#E6EEF7' }
          },
          {
            selector: 'node[type="step"]',
            style: { 'background-color': '#FFF4D6', 'font-style': 'italic' }
          },
          {
            selector: 'node[type="coalesced"]',
            style: { 'background-color': '#D9E8D2', 'border-style': 'double', 'border-width': 3 }
          },
          {
            selector: 'node[type="qc"]',
            style: { 'background-color': '#F0E0F7', 'width': '24px', 'font-size': '8px' }
          },
          {
            selector: 'node[type="replicate"]',
            style: {
              'background-color': '#FAFAFA',
              'text-valign': 'top',
              'font-weight': 'bold',
              'border-style': 'dashed'
            }
          },
          {
            selector: '.contributing',
            style: { 'background-color': '#EEEEEE' }
          },
          {
            selector: '.error',
            style: { 'border-color': '#D9534F', 'border-width': 2 }
          },
          {
            selector: '.highlight',
            style: { 'border-color': '#337AB7', 'border-width': 3 }
          },
          {
            selector: '.active',
            style: { 'background-color': '#FFD966' }
          },
          {
            selector: '.graph-node--released',
            style: { 'background-color': '#DFF0D8' }
          },
          {
            selector: '.graph-node--in-progress',
            style: { 'background-color': '#FCF8E3' }
          },
          {
            selector: '.graph-node--archived',
            style: { 'background-color': '#EEEEEE', 'color': '#777' }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'target-arrow-color': '#95A5A6',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'width': 2
            }
          },
          {
            selector: 'edge.qc',
            style: { 'line-style': 'dotted', 'target-arrow-shape': 'none' }
          },
          {
            selector: '.dimmed',
            style: { 'opacity': 0.25 }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          directed: true,
          spacingFactor: 1.2,
          nodeRepulsion: 8000,
          idealEdgeLength: 100
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="type">' + data.type + '</div>';
        html += '<div class="label">' + escapeHtml(data.label) + '</div>';

        if (data.type === 'file') {
          if (data.accession) html += '<div class="detail">Accession: ' + escapeHtml(data.accession) + '</div>';
          if (data.fileFormat) html += '<div class="detail">Format: ' + escapeHtml(data.fileFormat) + '</div>';
          if (data.assembly) html += '<div class="detail">Assembly: ' + escapeHtml(data.assembly) + '</div>';
          if (data.status) html += '<div class="detail">Status: ' + escapeHtml(data.status) + '</div>';
        } else if (data.type === 'step') {
          if (data.pipelines && data.pipelines.length > 0) {
            html += '<div class="detail">Pipelines: ' + data.pipelines.map(escapeHtml).join(', ') + '</div>';
          }
        } else if (data.type === 'coalesced') {
          html += '<div class="detail">Files: ' + data.count + '</div>';
        }
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      // Tapping a node dims everything outside its lineage.
      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('dimmed');
        const lineage = node.predecessors().add(node.successors()).add(node);
        cy.elements().not(lineage).not('node[type="replicate"]').addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
