package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mockview_backend/internal/ai"
	"mockview_backend/internal/model"
	"mockview_backend/internal/repository"
	"mockview_backend/internal/service"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// confirmSave 交互确认是否写入题库，测试中可替换
var confirmSave = func() (bool, error) {
	confirm := promptui.Select{
		Label: "Save these questions?",
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := confirm.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

var generateCmd = &cobra.Command{
	Use:   "generate TOPIC",
	Short: "Generate interview questions with the configured LLM and append them to the question bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("num-questions", "n", 3, "number of questions to generate")
	generateCmd.Flags().StringP("difficulty", "d", string(model.DifficultyMedium), "difficulty: easy, medium or hard")
	generateCmd.Flags().StringP("output-file", "o", "", "output file name inside the question dir (default <prefix>.json)")
	generateCmd.Flags().BoolP("auto-approve", "y", false, "save without asking for confirmation")
}

func generate(cmd *cobra.Command, topic string) error {
	count, _ := cmd.Flags().GetInt("num-questions")
	difficultyFlag, _ := cmd.Flags().GetString("difficulty")
	outputFile, _ := cmd.Flags().GetString("output-file")
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	if count <= 0 {
		return fmt.Errorf("num-questions must be positive, got %d", count)
	}
	difficulty := model.Difficulty(strings.ToLower(difficultyFlag))
	switch difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", difficultyFlag)
	}

	targetTopic, err := outputTopic(topic, outputFile)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	generator, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		return err
	}
	aiService := service.NewAIService(generator, cfg.AI.Timeout)
	if !aiService.Enabled() {
		return errors.New("no AI provider configured: set GEMINI_API_KEY or AI_API_KEY")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %d questions for topic: '%s' with %s...\n", count, topic, aiService.Model())

	questions, err := aiService.GenerateQuestions(ctx, topic, count, difficulty)
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}

	pretty, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\n--- Generated Questions ---")
	fmt.Fprintln(out, string(pretty))
	fmt.Fprintln(out, "-------------------------")

	if !autoApprove {
		save, err := confirmSave()
		if err != nil {
			return err
		}
		if !save {
			fmt.Fprintln(out, "Questions were not saved.")
			return nil
		}
	}

	repo := repository.NewQuestionRepository(cfg.Questions.DataPath, cfg.Questions.TopicsIndex)
	path, err := repo.AppendQuestions(targetTopic, questions)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully saved %d new questions to %s\n", len(questions), path)
	return nil
}

// outputTopic 输出文件名去掉扩展名即主题名，未指定时使用主题前缀
func outputTopic(topic, outputFile string) (string, error) {
	if outputFile == "" {
		prefix := service.TopicPrefix(topic)
		if prefix == "" {
			return "", errors.New("topic must not be empty")
		}
		return prefix, nil
	}
	base := filepath.Base(outputFile)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}
