// Package content holds the static editorial text of the explainer
// overlays: the per-statistic deep dives, the data-collection methodology
// sections, and the numbered reference table their citations point to.
// Everything here is display-only prose; nothing is ever parsed.
package content

import "github.com/statlive/matchview-ui/internal/models"

// Reference is one numbered citation shown in the reference popover
type Reference struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Explainer is the deep-dive content of one statistic, richer than the
// short algorithm string shown in the basic info overlay
type Explainer struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	References []int  `json:"references,omitempty"`
}

// MethodologySection is one collapsible block of the tracking explainer
type MethodologySection struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	References []int  `json:"references,omitempty"`
}

var references = map[int]Reference{
	1: {
		ID:   1,
		Text: "FIFA — Electronic Performance and Tracking Systems (EPTS), programme de certification",
		URL:  "https://www.fifa.com/technical/football-technology/standards/epts",
	},
	2: {
		ID:   2,
		Text: "Opta Analyst — Définition et calcul du modèle Expected Goals (xG)",
		URL:  "https://theanalyst.com/eu/2023/08/what-is-expected-goals-xg/",
	},
	3: {
		ID:   3,
		Text: "IFAB — Lois du jeu, Loi 12 : fautes et incorrections",
		URL:  "https://www.theifab.com/laws/latest/fouls-and-misconduct/",
	},
	4: {
		ID:   4,
		Text: "FIFA — Technologie sur la ligne de but (Goal-Line Technology), cahier des charges",
		URL:  "https://www.fifa.com/technical/football-technology/football-technologies-and-innovations-at-the-fifa-world-cup-2022/goal-line-technology",
	},
}

// LookupReference resolves a citation id to its reference entry
func LookupReference(id int) (Reference, bool) {
	ref, ok := references[id]
	return ref, ok
}

var statExplainers = map[models.StatKey]Explainer{
	models.StatPossession: {
		Title: "Comment la possession est-elle mesurée ?",
		Body: "La possession est la part du temps de jeu effectif pendant laquelle une équipe contrôle le ballon. " +
			"Le contrôle est attribué dès qu'un joueur réalise deux touches consécutives ou une passe réussie ; " +
			"les phases de ballon disputé sont exclues du calcul. Les positions du ballon et des vingt-deux joueurs " +
			"sont reconstituées 25 fois par seconde à partir du dispositif de tracking du stade.",
		References: []int{1},
	},
	models.StatShots: {
		Title: "Comment les tirs sont-ils détectés ?",
		Body: "Un tir est comptabilisé lorsqu'un joueur frappe volontairement le ballon en direction du but adverse. " +
			"La détection combine la trajectoire du ballon, l'orientation du joueur au moment du contact et la " +
			"vitesse initiale mesurée. Les dégagements et les passes appuyées sont filtrés par un modèle entraîné " +
			"sur plusieurs saisons de séquences annotées.",
		References: []int{1},
	},
	models.StatPasses: {
		Title: "Comment les passes sont-elles comptées ?",
		Body: "Une passe est un échange volontaire du ballon entre deux coéquipiers. Le suivi optique identifie le " +
			"passeur, la trajectoire et le receveur ; une passe est réussie si le premier contact suivant revient à " +
			"un joueur de la même équipe. Les déviations et les duels aériens ne sont pas comptés comme des passes.",
		References: []int{1},
	},
	models.StatXG: {
		Title: "Comment le xG est-il calculé ?",
		Body: "L'Expected Goals attribue à chaque tir une probabilité de but comprise entre 0 et 1, estimée à partir " +
			"de la position du tir, de l'angle vers le but, de la partie du corps utilisée, de la pression des " +
			"défenseurs et du type d'action qui précède. Le xG d'une équipe est la somme des probabilités de tous " +
			"ses tirs. Un xG de 5,24 signifie qu'une équipe moyenne aurait marqué environ cinq buts sur les mêmes occasions.",
		References: []int{2},
	},
	models.StatCorners: {
		Title: "Comment les corners sont-ils détectés ?",
		Body: "Un corner est enregistré lorsque le ballon franchit entièrement la ligne de but, touché en dernier par " +
			"un défenseur, sans qu'un but soit marqué. Le franchissement de ligne est détecté par les caméras dédiées " +
			"aux lignes de jeu, avec confirmation par l'opérateur du centre de données du match.",
		References: []int{1},
	},
	models.StatFouls: {
		Title: "Comment les fautes sont-elles recensées ?",
		Body: "Les fautes sifflées par l'arbitre sont saisies en direct par les opérateurs, enrichies de la position " +
			"du contact reconstituée par le tracking. La qualification suit la Loi 12 : charges irrégulières, " +
			"tacles non maîtrisés, mains. Les avantages laissés par l'arbitre ne comptent pas comme fautes.",
		References: []int{3},
	},
}

// StatExplainer returns the deep-dive content for a statistic. Unknown keys
// fall back to a generic entry titled with the raw key.
func StatExplainer(key models.StatKey) Explainer {
	if e, ok := statExplainers[key]; ok {
		return e
	}
	return Explainer{Title: string(key), Body: "Aucune description disponible pour cette statistique."}
}

// KeyedSection pairs a methodology block with its toggle key
type KeyedSection struct {
	Key     string
	Section MethodologySection
}

// MethodologySections returns the two collapsible blocks of the
// composition/tracking explainer in display order. The keys match the
// section names the view state toggles ("sensor", "camera").
func MethodologySections() []KeyedSection {
	return []KeyedSection{
		{Key: "sensor", Section: methodologySections["sensor"]},
		{Key: "camera", Section: methodologySections["camera"]},
	}
}

var methodologySections = map[string]MethodologySection{
	"sensor": {
		Title: "Suivi par capteurs",
		Body: "Chaque joueur porte un capteur GNSS/IMU logé entre les omoplates dans un gilet ajusté. Le capteur " +
			"mesure position, vitesse et accélérations 100 fois par seconde et transmet par radio basse latence aux " +
			"antennes du stade. Le ballon embarque un capteur inertiel homologué qui horodate chaque contact.",
		References: []int{1},
	},
	"camera": {
		Title: "Suivi par caméras",
		Body: "Un réseau de caméras calibrées couvre l'intégralité du terrain. La vision par ordinateur détecte les " +
			"silhouettes, identifie les numéros de maillot et triangule la position de chaque joueur et du ballon. " +
			"Les deux flux, capteurs et caméras, sont fusionnés pour corriger occultations et pertes de signal.",
		References: []int{1},
	},
}

// RedCardBody is the red-card detection explainer text
const RedCardBody = "Les cartons sont saisis au moment où l'arbitre les signale, puis rapprochés de la feuille de " +
	"match officielle. Le joueur sanctionné est identifié par son numéro de maillot via le suivi vidéo, ce qui " +
	"permet d'afficher le nom du joueur exclu dans l'en-tête du match. En cas de divergence avec la feuille de " +
	"match, la donnée officielle de la ligue fait foi."

// GoalDetectionBody is the goal detection explainer text
const GoalDetectionBody = "Un but est validé lorsque le ballon franchit entièrement la ligne de but entre les " +
	"montants. La détection s'appuie sur les caméras dédiées à la ligne de but, qui suivent le ballon avec une " +
	"précision de quelques millimètres et notifient le centre de données en moins d'une seconde. Le score affiché " +
	"est ensuite confirmé par la donnée officielle de la ligue."

// RedCardReferences and GoalReferences list the citations of the two
// standalone explainers
var (
	RedCardReferences = []int{3}
	GoalReferences    = []int{4}
)

// Banner is the transient notification shown on the recurring schedule.
// Content is static per occurrence.
type Banner struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HighlightBanner returns the notification displayed by the recurring timer
func HighlightBanner() Banner {
	return Banner{
		Title:   "Occasion dangereuse !",
		Message: "Tir cadré de l'OM, la possession monte à 62%",
	}
}
